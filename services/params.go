package services

import "board-backend/models"

var allowedSortKeys = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"content":    true,
	"author_id":  true,
}

var allowedSortOrders = map[string]bool{
	"asc":  true,
	"desc": true,
}

// validateListParams fills defaults for unset fields and rejects anything
// outside the enumerated sort keys/orders or non-positive page bounds.
// Invalid parameters are caller errors, never silently corrected.
func validateListParams(p *models.ArticleListParams) error {
	if p.SortBy == "" {
		p.SortBy = "created_at"
	}
	if p.SortOrder == "" {
		p.SortOrder = "desc"
	}
	if p.Page < 1 || p.Limit < 1 {
		return models.ErrInvalidPage
	}
	if !allowedSortKeys[p.SortBy] {
		return models.ErrInvalidSortKey
	}
	if !allowedSortOrders[p.SortOrder] {
		return models.ErrInvalidSortOrder
	}
	return nil
}
