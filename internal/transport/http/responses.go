package httptransport

import (
	"time"

	"github.com/google/uuid"

	"badbaado/internal/admin"
	"badbaado/internal/donation"
	"badbaado/internal/hospital"
	"badbaado/internal/notify"
	"badbaado/internal/request"
	"badbaado/internal/settings"
	"badbaado/internal/user"
)

// Response views keep password hashes and other internals off the wire.

type userView struct {
	ID             uuid.UUID  `json:"id"`
	FullName       string     `json:"fullName"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email,omitempty"`
	Gender         string     `json:"gender"`
	Age            int        `json:"age"`
	Location       string     `json:"location"`
	BloodType      string     `json:"bloodType"`
	Role           string     `json:"role"`
	IsActive       bool       `json:"isActive"`
	IsEligible     bool       `json:"isEligible"`
	LastDonation   *time.Time `json:"lastDonation"`
	TotalDonations int        `json:"totalDonations"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func toUserView(u *user.User) userView {
	return userView{
		ID:             u.ID,
		FullName:       u.FullName,
		Phone:          u.Phone,
		Email:          u.Email,
		Gender:         u.Gender,
		Age:            u.Age,
		Location:       u.Location,
		BloodType:      string(u.BloodType),
		Role:           string(u.Role),
		IsActive:       u.IsActive,
		IsEligible:     u.IsEligible,
		LastDonation:   u.LastDonation,
		TotalDonations: u.TotalDonations,
		CreatedAt:      u.CreatedAt,
	}
}

func toUserViews(users []*user.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toUserView(u))
	}
	return out
}

type adminView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	FullName     string    `json:"fullName"`
	Organization string    `json:"organization"`
	Position     string    `json:"position"`
	Department   string    `json:"department,omitempty"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toAdminView(a *admin.Admin) adminView {
	return adminView{
		ID:           a.ID,
		Email:        a.Email,
		Phone:        a.Phone,
		FullName:     a.FullName,
		Organization: a.Organization,
		Position:     a.Position,
		Department:   a.Department,
		Role:         string(a.Role),
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
	}
}

type requestView struct {
	ID           uuid.UUID  `json:"id"`
	RequesterID  uuid.UUID  `json:"requesterId"`
	FullName     string     `json:"fullName"`
	Phone        string     `json:"phone"`
	Gender       string     `json:"gender"`
	Age          int        `json:"age"`
	Location     string     `json:"location"`
	Hospital     string     `json:"hospital,omitempty"`
	BloodType    string     `json:"bloodType"`
	Urgency      string     `json:"urgency"`
	Description  string     `json:"description,omitempty"`
	MaxDonors    int        `json:"maxDonors"`
	Status       string     `json:"status"`
	AdminID      *uuid.UUID `json:"adminId,omitempty"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`
	RejectedAt   *time.Time `json:"rejectedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	RejectReason string     `json:"rejectReason,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func toRequestView(r *request.BloodRequest) requestView {
	return requestView{
		ID:           r.ID,
		RequesterID:  r.RequesterID,
		FullName:     r.FullName,
		Phone:        r.Phone,
		Gender:       r.Gender,
		Age:          r.Age,
		Location:     r.Location,
		Hospital:     r.Hospital,
		BloodType:    string(r.BloodType),
		Urgency:      string(r.Urgency),
		Description:  r.Description,
		MaxDonors:    r.MaxDonors,
		Status:       string(r.Status),
		AdminID:      r.AdminID,
		ApprovedAt:   r.ApprovedAt,
		RejectedAt:   r.RejectedAt,
		CompletedAt:  r.CompletedAt,
		CancelledAt:  r.CancelledAt,
		RejectReason: r.RejectReason,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toRequestViews(requests []*request.BloodRequest) []requestView {
	out := make([]requestView, 0, len(requests))
	for _, r := range requests {
		out = append(out, toRequestView(r))
	}
	return out
}

type donationView struct {
	ID          uuid.UUID  `json:"id"`
	RequestID   uuid.UUID  `json:"requestId"`
	DonorID     uuid.UUID  `json:"donorId"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes"`
	AcceptedAt  *time.Time `json:"acceptedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toDonationView(d *donation.Donation) donationView {
	return donationView{
		ID:          d.ID,
		RequestID:   d.RequestID,
		DonorID:     d.DonorID,
		Status:      string(d.Status),
		Notes:       d.Notes,
		AcceptedAt:  d.AcceptedAt,
		CompletedAt: d.CompletedAt,
		CreatedAt:   d.CreatedAt,
	}
}

func toDonationViews(donations []*donation.Donation) []donationView {
	out := make([]donationView, 0, len(donations))
	for _, d := range donations {
		out = append(out, toDonationView(d))
	}
	return out
}

type notificationView struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Kind      string     `json:"kind"`
	IsRead    bool       `json:"isRead"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toNotificationView(n *notify.Notification) notificationView {
	return notificationView{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Kind:      string(n.Kind),
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

type hospitalView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func toHospitalView(h *hospital.Hospital) hospitalView {
	return hospitalView{
		ID:        h.ID,
		Name:      h.Name,
		Phone:     h.Phone,
		Location:  h.Location,
		IsActive:  h.IsActive,
		CreatedAt: h.CreatedAt,
	}
}

type settingView struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	UpdatedBy   uuid.UUID `json:"updatedBy"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toSettingView(s *settings.Setting) settingView {
	return settingView{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		Category:    s.Category,
		UpdatedBy:   s.UpdatedBy,
		UpdatedAt:   s.UpdatedAt,
	}
}
