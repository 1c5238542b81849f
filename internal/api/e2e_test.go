package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEndToEndMembershipFlow walks the full admin workflow: register, log in,
// create a category, assign a member, record a payment, and read it back
// populated.
func TestEndToEndMembershipFlow(t *testing.T) {
	r, db := newTestEnv(t)

	registerUser(t, r, "admina", "admina@example.com")
	token := loginUser(t, r, "admina@example.com")

	catID := createCategory(t, r, db, token, "Zone1", "false")
	memberID := createMember(t, r, token, "Jean", "Kigali", catID)
	createReport(t, r, token, memberID, 5000, "cash", "2024-01-10")

	w := doJSON(t, r, http.MethodGet, "/api/payment/report/v1/view-payment", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])

	reports := body["paymentReports"].([]any)
	require.Len(t, reports, 1)
	report := reports[0].(map[string]any)
	require.Equal(t, float64(5000), report["amount"])
	require.Equal(t, "cash", report["paymentMethod"])
	require.Equal(t, "2024-01-10", report["paymentDate"])
	require.Equal(t, "Jean", report["memberName"])

	// The session ends cleanly and the token stops working for logout reuse
	w = doJSON(t, r, http.MethodPost, "/api/auth/v1/logout", "", map[string]any{
		"email": "admina@example.com",
		"token": token,
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/auth/v1/logout", "", map[string]any{
		"email": "admina@example.com",
		"token": token,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}
