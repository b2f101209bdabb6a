package service_test

import (
	"context"
	"testing"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/apitest"
	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/service"
)

func newTestAuthService(t *testing.T) (*service.AuthService, *apitest.Backend) {
	t.Helper()
	backend := apitest.NewBackend(t)
	state := newTestState(t)
	auth := service.NewAuthService(api.New(backend.URL(), state), state, service.NewThrottle(0, 3))
	return auth, backend
}

func TestAuthService_Register_StoresToken(t *testing.T) {
	auth, backend := newTestAuthService(t)
	ctx := context.Background()

	res := auth.Register(ctx, "new@example.com", "New User", "password123", "password123")
	if !res.OK() {
		t.Fatalf("Register: %s", res.Message())
	}
	if res.Data.User.Email != "new@example.com" {
		t.Fatalf("expected email new@example.com, got %s", res.Data.User.Email)
	}

	profile := auth.Profile(ctx)
	if !profile.OK() {
		t.Fatalf("Profile after register: %s", profile.Message())
	}
	if backend.LastAuthorization("GET /api/auth/me") == "" {
		t.Fatal("expected profile request to carry the stored token")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	auth, backend := newTestAuthService(t)
	ctx := context.Background()

	if res := auth.Register(ctx, "", "Name", "pw", "pw"); res.OK() || res.Err.Kind != domain.KindValidation {
		t.Fatalf("expected validation error, got %+v", res)
	}
	if res := auth.Register(ctx, "a@example.com", "Name", "pw1", "pw2"); res.OK() || res.Message() != "Passwords do not match." {
		t.Fatalf("expected mismatch error, got %+v", res)
	}
	if n := backend.Calls("POST /api/auth/register"); n != 0 {
		t.Fatalf("expected no register calls, got %d", n)
	}
}

func TestAuthService_Login_ServerMessageVerbatim(t *testing.T) {
	auth, backend := newTestAuthService(t)
	backend.AddUser("ada@example.com", "password123", "Ada")

	res := auth.Login(context.Background(), "ada@example.com", "wrong")
	if res.OK() {
		t.Fatal("expected login to fail")
	}
	if res.Message() != "Invalid email or password." {
		t.Fatalf("expected server message, got %q", res.Message())
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	auth, backend := newTestAuthService(t)
	backend.AddUser("ada@example.com", "password123", "Ada")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		auth.Login(ctx, "ada@example.com", "wrong")
	}
	res := auth.Login(ctx, "ada@example.com", "password123")
	if res.OK() {
		t.Fatal("expected throttled login")
	}
	if n := backend.Calls("POST /api/auth/login"); n != 3 {
		t.Fatalf("expected 3 login calls to reach the backend, got %d", n)
	}
}

func TestAuthService_Logout_ClearsTokenWhenServerFails(t *testing.T) {
	backend, state, client := newLoggedIn(t)
	auth := service.NewAuthService(client, state, nil)
	ctx := context.Background()

	backend.Fail("POST /api/auth/logout", 500, "boom")
	auth.Logout(ctx)

	if state.LoggedIn(ctx) {
		t.Fatal("expected token cleared despite server failure")
	}
	if backend.Calls("POST /api/auth/logout") != 1 {
		t.Fatal("expected logout request to be attempted")
	}
}

func TestAuthService_Logout_ClearsTokenWhenUnreachable(t *testing.T) {
	backend, state, _ := newLoggedIn(t)
	ctx := context.Background()
	url := backend.URL()
	backend.Server.Close()

	auth := service.NewAuthService(api.New(url, state), state, nil)
	auth.Logout(ctx)

	if state.LoggedIn(ctx) {
		t.Fatal("expected token cleared when backend is unreachable")
	}
}

func TestAuthService_ExpiredSessionAsksToLogInAgain(t *testing.T) {
	_, state, client := newLoggedIn(t)
	auth := service.NewAuthService(client, state, nil)
	ctx := context.Background()

	// Another actor removes the token mid-session.
	state.Clear(ctx)

	res := auth.Profile(ctx)
	if res.OK() {
		t.Fatal("expected auth failure")
	}
	if res.Err.Kind != domain.KindAuth {
		t.Fatalf("expected auth kind, got %s", res.Err.Kind)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	_, state, client := newLoggedIn(t)
	auth := service.NewAuthService(client, state, nil)
	ctx := context.Background()

	if res := auth.UpdateProfile(ctx, " ", ""); res.OK() {
		t.Fatal("expected validation error for empty update")
	}
	res := auth.UpdateProfile(ctx, "Ada Lovelace", "")
	if !res.OK() {
		t.Fatalf("UpdateProfile: %s", res.Message())
	}
	if res.Data.Name != "Ada Lovelace" || res.Data.Email != "ada@example.com" {
		t.Fatalf("unexpected profile %+v", res.Data)
	}
}

func TestAuthService_TokenExpiry(t *testing.T) {
	_, state, client := newLoggedIn(t)
	auth := service.NewAuthService(client, state, nil)

	if _, ok := auth.TokenExpiry(context.Background()); !ok {
		t.Fatal("expected readable expiry for backend token")
	}
}
