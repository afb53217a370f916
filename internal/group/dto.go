package group

import "time"

// CreateGroupRequest represents the request body for creating a group
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// JoinGroupRequest represents the request body for joining a group by code
type JoinGroupRequest struct {
	Code string `json:"code"`
}

// AddMemberRequest represents the request body for adding a member
type AddMemberRequest struct {
	UserID int64 `json:"user_id"`
}

// GroupResponse represents the response for a single group
type GroupResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"join_code"`
	CreatedBy int64     `json:"created_by"`
	OwnerName string    `json:"owner_name,omitempty"`
	CreatedAt string    `json:"created_at"`
	Members   []*Member `json:"members,omitempty"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		JoinCode:  g.JoinCode,
		CreatedBy: g.CreatedBy,
		OwnerName: g.OwnerName,
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
	}
}
