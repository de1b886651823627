package handler

import (
	"github.com/unla-grupo16/turnos-auth/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterClientInput {
	return ports.RegisterClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
	}
}

func toEditInput(req editClientRequest) ports.EditClientInput {
	return ports.EditClientInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		DocumentID: req.DocumentID,
		Email:      req.Email,
	}
}

// --- Service output → Response ---

func toLoginResponse(r *ports.LoginResult) loginResponse {
	return loginResponse{
		Token: r.Token,
		Email: r.Email,
		Role:  r.Role,
		ID:    r.ID,
		Name:  r.Name,
	}
}

func toClientResponse(d ports.ClientDetail) clientResponse {
	return clientResponse{
		PersonID:      d.PersonID,
		AccountID:     d.AccountID,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Phone:         d.Phone,
		DocumentID:    d.DocumentID,
		Email:         d.Email,
		AccountActive: d.AccountActive,
		PersonActive:  d.PersonActive,
		CreatedAt:     d.CreatedAt,
	}
}

func toClientResponses(in []ports.ClientDetail) []clientResponse {
	out := make([]clientResponse, 0, len(in))
	for _, d := range in {
		out = append(out, toClientResponse(d))
	}
	return out
}
