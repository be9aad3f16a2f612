package handler

import (
	"fmt"
	"net/http"

	"citrusreach/internal/domain/models"
	"citrusreach/internal/domain/services"
	"citrusreach/internal/httputil"
)

// kindFromRequest resolves the plural URL segment to a kind.
func kindFromRequest(r *http.Request) (models.Kind, error) {
	switch r.PathValue("kind") {
	case "documents":
		return models.KindDocument, nil
	case "profiles":
		return models.KindProfile, nil
	case "events":
		return models.KindEvent, nil
	default:
		return "", fmt.Errorf("unknown collection %q", r.PathValue("kind"))
	}
}

type createNodeRequest struct {
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id,omitempty"`
}

// updateNodeRequest mirrors services.UpdateNodeRequest with RFC 7396 null
// handling for the clearable fields.
type updateNodeRequest struct {
	Title       *string                  `json:"title,omitempty"`
	Content     *string                  `json:"content,omitempty"`
	Icon        httputil.OptionalString  `json:"icon"`
	CoverImage  httputil.OptionalString  `json:"cover_image"`
	IsPublished *bool                    `json:"is_published,omitempty"`
}

func (req *updateNodeRequest) toService() *services.UpdateNodeRequest {
	out := &services.UpdateNodeRequest{
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: req.IsPublished,
	}
	if req.Icon.Present {
		if req.Icon.Value == nil {
			out.ClearIcon = true
		} else {
			out.Icon = req.Icon.Value
		}
	}
	if req.CoverImage.Present {
		if req.CoverImage.Value == nil {
			out.ClearCoverImage = true
		} else {
			out.CoverImage = req.CoverImage.Value
		}
	}
	return out
}

type listNodesResponse struct {
	Nodes []models.Node `json:"nodes"`
	Total int           `json:"total"`
}
