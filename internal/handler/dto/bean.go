package dto

import (
	"time"

	"github.com/brewlog/brewlog/internal/model"
)

// CreateBeanRequest represents the request body for registering a bean.
type CreateBeanRequest struct {
	Name   string `json:"name"`
	Origin string `json:"origin"`
}

// UpdateBeanRequest represents the request body for updating a bean.
type UpdateBeanRequest struct {
	Name   *string `json:"name,omitempty"`
	Origin *string `json:"origin,omitempty"`
}

// BeanResponse represents a bean in API responses.
type BeanResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Origin    string    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToBeanResponse converts a Bean model to BeanResponse DTO.
func ToBeanResponse(bean *model.Bean) *BeanResponse {
	return &BeanResponse{
		ID:        bean.ID,
		OwnerID:   bean.OwnerID,
		Name:      bean.Name,
		Origin:    bean.Origin,
		CreatedAt: bean.CreatedAt,
		UpdatedAt: bean.UpdatedAt,
	}
}

// ToBeanListResponse converts a slice of Bean models. An empty list
// serializes as [] rather than null.
func ToBeanListResponse(beans []*model.Bean) []BeanResponse {
	responses := make([]BeanResponse, 0, len(beans))
	for _, bean := range beans {
		responses = append(responses, *ToBeanResponse(bean))
	}
	return responses
}
