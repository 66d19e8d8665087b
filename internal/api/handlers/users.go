package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/rohits-web03/referly/internal/utils"
)

type userSummary struct {
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	UserID        string    `json:"userId"`
	ReferredBy    *string   `json:"referredBy"`
	ReferrerName  *string   `json:"referrerName"`
	IsAdmin       bool      `json:"isAdmin"`
	CreatedAt     time.Time `json:"createdAt"`
	ReferralCount int64     `json:"referralCount"`
}

type listUsersResponse struct {
	Users      []userSummary `json:"users"`
	TotalUsers int           `json:"totalUsers"`
	TodayUsers int64         `json:"todayUsers"`
}

// GET /api/users
// ListUsers godoc
// @Summary List every user with referral counts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} listUsersResponse
// @Failure 403 {object} utils.Payload
// @Router /api/users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		return err
	}

	counts, err := h.store.ReferralCounts(ctx)
	if err != nil {
		return err
	}

	todayUsers, err := h.store.CountUsersSince(ctx, startOfDay(h.now()))
	if err != nil {
		return err
	}

	list := make([]userSummary, 0, len(users))
	for _, u := range users {
		list = append(list, userSummary{
			Name:          u.Name,
			Email:         u.Email,
			UserID:        u.UserID,
			ReferredBy:    u.ReferredBy,
			ReferrerName:  u.ReferrerName,
			IsAdmin:       u.IsAdmin,
			CreatedAt:     u.CreatedAt,
			ReferralCount: counts[u.UserID],
		})
	}

	utils.JSONResponse(w, http.StatusOK, listUsersResponse{
		Users:      list,
		TotalUsers: len(list),
		TodayUsers: todayUsers,
	})
	return nil
}

// startOfDay is local midnight of t's day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type referrerInfo struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

type referralEntry struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type listReferralsResponse struct {
	User      referrerInfo    `json:"user"`
	Referrals []referralEntry `json:"referrals"`
}

// GET /api/referrals/{userId}
// ListReferrals godoc
// @Summary List the users referred by one user
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Referrer's public user id"
// @Success 200 {object} listReferralsResponse
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/referrals/{userId} [get]
func (h *Handler) ListReferrals(w http.ResponseWriter, r *http.Request) error {
	userID := strings.TrimSpace(r.PathValue("userId"))
	ctx := r.Context()

	user, err := h.store.FindUserByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return NotFound("User not found")
	}

	referrals, err := h.store.ListReferrals(ctx, user.UserID)
	if err != nil {
		return err
	}

	list := make([]referralEntry, 0, len(referrals))
	for _, ref := range referrals {
		list = append(list, referralEntry{
			Name:      ref.Name,
			Email:     ref.Email,
			UserID:    ref.UserID,
			CreatedAt: ref.CreatedAt,
		})
	}

	utils.JSONResponse(w, http.StatusOK, listReferralsResponse{
		User: referrerInfo{
			Name:   user.Name,
			UserID: user.UserID,
		},
		Referrals: list,
	})
	return nil
}
