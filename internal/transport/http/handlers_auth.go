package httptransport

import (
	"net/http"

	"badbaado/internal/admin"
	"badbaado/internal/user"
	"badbaado/pkg/bloodtype"
)

type registerUserRequest struct {
	FullName  string `json:"fullName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Gender    string `json:"gender"`
	Age       int    `json:"age"`
	Location  string `json:"location"`
	BloodType string `json:"bloodType"`
}

func (h *Handler) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	u, err := h.users.Register(r.Context(), user.RegisterInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
		Gender:    req.Gender,
		Age:       req.Age,
		Location:  req.Location,
		BloodType: bloodtype.BloodType(req.BloodType),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	token, err := h.tokens.GenerateUserToken(u.ID, string(u.Role))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  toUserView(u),
		"token": token,
	})
}

type registerAdminRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Position     string `json:"position"`
	Department   string `json:"department"`
	Role         string `json:"role"`
}

func (h *Handler) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req registerAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	a, err := h.admins.Register(r.Context(), admin.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Organization: req.Organization,
		Position:     req.Position,
		Department:   req.Department,
		Role:         admin.Role(req.Role),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	token, err := h.tokens.GenerateAdminToken(a.ID, string(a.Role))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"admin": toAdminView(a),
		"token": token,
	})
}

type loginUserRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *Handler) handleLoginUser(w http.ResponseWriter, r *http.Request) {
	var req loginUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	u, err := h.users.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	token, err := h.tokens.GenerateUserToken(u.ID, string(u.Role))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":  toUserView(u),
		"token": token,
	})
}

type loginAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLoginAdmin(w http.ResponseWriter, r *http.Request) {
	var req loginAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	a, err := h.admins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	token, err := h.tokens.GenerateAdminToken(a.ID, string(a.Role))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"admin": toAdminView(a),
		"token": token,
	})
}
