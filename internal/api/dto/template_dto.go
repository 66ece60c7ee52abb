package dto

import (
	"github.com/spec-kit/pos-ticketing/internal/domain"
	"github.com/spec-kit/pos-ticketing/internal/service"
)

// TemplateResponse lists a template and the tag group ids it binds.
type TemplateResponse struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	TicketTagGroupIDs []int  `json:"ticket_tag_group_ids"`
	OrderTagGroupIDs  []int  `json:"order_tag_group_ids"`
}

// TagGroupResponse carries a resolved tag vocabulary.
type TagGroupResponse struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	FreeTagging bool          `json:"free_tagging"`
	Tags        []TagResponse `json:"tags"`
}

// TagResponse is a single tag within a group.
type TagResponse struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price,omitempty"`
}

// TemplateDetailResponse is a template with its tag groups resolved.
type TemplateDetailResponse struct {
	Template        TemplateResponse   `json:"template"`
	TicketTagGroups []TagGroupResponse `json:"ticket_tag_groups"`
	OrderTagGroups  []TagGroupResponse `json:"order_tag_groups"`
}

// TemplateResponseFromDomain converts a template.
func TemplateResponseFromDomain(t *domain.TicketTemplate) TemplateResponse {
	return TemplateResponse{
		ID:                t.ID,
		Name:              t.Name,
		TicketTagGroupIDs: t.TicketTagGroupIDs,
		OrderTagGroupIDs:  t.OrderTagGroupIDs,
	}
}

// TemplateDetailResponseFromDomain converts a resolved template.
func TemplateDetailResponseFromDomain(detail *service.TemplateDetail) TemplateDetailResponse {
	out := TemplateDetailResponse{Template: TemplateResponseFromDomain(&detail.Template)}
	for i := range detail.TicketTagGroups {
		g := &detail.TicketTagGroups[i]
		group := TagGroupResponse{ID: g.ID, Name: g.Name, FreeTagging: g.FreeTagging}
		for _, tag := range g.TicketTags {
			group.Tags = append(group.Tags, TagResponse{ID: tag.ID, Name: tag.Name})
		}
		out.TicketTagGroups = append(out.TicketTagGroups, group)
	}
	for i := range detail.OrderTagGroups {
		g := &detail.OrderTagGroups[i]
		group := TagGroupResponse{ID: g.ID, Name: g.Name, FreeTagging: g.FreeTagging}
		for _, tag := range g.OrderTags {
			group.Tags = append(group.Tags, TagResponse{ID: tag.ID, Name: tag.Name, Price: tag.Price})
		}
		out.OrderTagGroups = append(out.OrderTagGroups, group)
	}
	return out
}
