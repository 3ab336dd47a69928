package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/staffhub/staffhub-server/internal/proto"
	"github.com/staffhub/staffhub-server/internal/store"
)

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/auth/register", "", map[string]string{
		"first_name": "Alice",
		"last_name":  "Hart",
		"email":      "alice@example.com",
		"password":   "password123",
		"job_title":  "Engineer",
		"department": "IT",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: unexpected status %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, env.ts.URL+"/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: unexpected status %d", resp.StatusCode)
	}

	var auth AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if auth.Token == "" {
		t.Fatal("expected token in login response")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice@example.com", store.RoleEmployee)

	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "not-the-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	_, employeeToken := env.createUser(t, "alice@example.com", store.RoleEmployee)

	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/assets", employeeToken, map[string]string{
		"asset_name": "MacBook",
		"asset_type": "Laptop",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for employee on admin route, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, env.ts.URL+"/api/assets", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestGrievanceSubmitAndAdminFlow(t *testing.T) {
	env := newTestEnv(t)
	_, employeeToken := env.createUser(t, "alice@example.com", store.RoleEmployee)
	_, adminToken := env.createUser(t, "admin@example.com", store.RoleAdmin)

	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/grievances", employeeToken, map[string]string{
		"subject": "Broken chair",
		"details": "The chair wobbles.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit grievance: unexpected status %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, env.ts.URL+"/api/grievances", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list grievances: unexpected status %d", resp.StatusCode)
	}

	var grievances []GrievanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&grievances); err != nil {
		t.Fatalf("decode grievances: %v", err)
	}
	if len(grievances) != 1 || grievances[0].Status != store.GrievanceStatusOpen {
		t.Fatalf("unexpected grievances: %+v", grievances)
	}

	url := env.ts.URL + "/api/grievances/" + strconv.FormatInt(grievances[0].ID, 10) + "/status"
	resp = doJSON(t, http.MethodPut, url, adminToken, map[string]string{"status": "Resolved"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status: unexpected status %d", resp.StatusCode)
	}
}

func TestMutationEmitsDataUpdated(t *testing.T) {
	env := newTestEnv(t)
	watcher, watcherToken := env.createUser(t, "watcher@example.com", store.RoleEmployee)
	_, adminToken := env.createUser(t, "admin@example.com", store.RoleAdmin)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, env.wsURL(watcherToken))
	sendJoin(t, ctx, conn, watcher)
	readEvent(t, ctx, conn, proto.EventChatHistory)

	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/announcements", adminToken, map[string]string{
		"title": "Office closed Friday",
		"body":  "Electrical maintenance.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create announcement: unexpected status %d", resp.StatusCode)
	}

	envUpdate := readEvent(t, ctx, conn, proto.EventDataUpdated)
	var update proto.DataUpdated
	if err := json.Unmarshal(envUpdate.Data, &update); err != nil {
		t.Fatalf("unmarshal data-updated: %v", err)
	}
	if update.Type != "announcements" {
		t.Fatalf("unexpected topic: %q", update.Type)
	}
}

func TestAssetCreateWithAllocation(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createUser(t, "alice@example.com", store.RoleEmployee)
	_, adminToken := env.createUser(t, "admin@example.com", store.RoleAdmin)

	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/assets", adminToken, map[string]string{
		"asset_name": "ThinkPad X1",
		"asset_type": "Laptop",
		"email":      alice.Email,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create asset: unexpected status %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, env.ts.URL+"/api/assets/mine", aliceToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list my assets: unexpected status %d", resp.StatusCode)
	}

	var mine []AssetResponse
	if err := json.NewDecoder(resp.Body).Decode(&mine); err != nil {
		t.Fatalf("decode assets: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "ThinkPad X1" || mine[0].Status != store.AssetStatusAssigned {
		t.Fatalf("unexpected assets: %+v", mine)
	}
}
