package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memStore struct {
	cred      *Credential
	loadCalls int
	saveCalls int
	loadErr   error
}

func (s *memStore) Load() (*Credential, error) {
	s.loadCalls++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.cred, nil
}

func (s *memStore) Save(cred *Credential) error {
	s.saveCalls++
	s.cred = cred
	return nil
}

func (s *memStore) Delete() error {
	s.cred = nil
	return nil
}

func validCred() *Credential {
	return &Credential{
		AccessToken:  "valid-access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
}

func expiredCred() *Credential {
	return &Credential{
		AccessToken:  "stale-access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}
}

// testManager wires counting fakes for the refresh call and the
// interactive flow.
func testManager(store TokenStore) (*Manager, *int, *int) {
	m := NewManager(store, nil)
	refreshes := 0
	flows := 0
	m.refresh = func(ctx context.Context, cred *Credential) (*Credential, error) {
		refreshes++
		return &Credential{
			AccessToken:  "refreshed-access",
			RefreshToken: cred.RefreshToken,
			Expiry:       time.Now().Add(time.Hour),
		}, nil
	}
	m.authorize = func(ctx context.Context) (*Credential, error) {
		flows++
		return validCred(), nil
	}
	return m, &refreshes, &flows
}

func TestCredentialValidCachedNoIO(t *testing.T) {
	store := &memStore{cred: validCred()}
	m, refreshes, flows := testManager(store)

	first, err := m.Credential(context.Background())
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := m.Credential(context.Background())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if first.AccessToken != second.AccessToken {
		t.Errorf("expected identical credentials, got %q and %q", first.AccessToken, second.AccessToken)
	}
	if store.loadCalls != 1 {
		t.Errorf("expected a single store load, got %d", store.loadCalls)
	}
	if *refreshes != 0 || *flows != 0 {
		t.Errorf("expected zero refresh/flow calls, got %d/%d", *refreshes, *flows)
	}
}

func TestCredentialExpiredRefreshesOnce(t *testing.T) {
	store := &memStore{cred: expiredCred()}
	m, refreshes, flows := testManager(store)

	cred, err := m.Credential(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *refreshes != 1 {
		t.Errorf("expected exactly one refresh call, got %d", *refreshes)
	}
	if *flows != 0 {
		t.Errorf("expected zero interactive flow invocations, got %d", *flows)
	}
	if cred.AccessToken != "refreshed-access" {
		t.Errorf("expected refreshed token, got %q", cred.AccessToken)
	}
	if store.saveCalls != 1 {
		t.Errorf("expected refreshed credential persisted once, got %d saves", store.saveCalls)
	}
}

func TestCredentialAbsentRunsInteractiveFlow(t *testing.T) {
	store := &memStore{}
	m, refreshes, flows := testManager(store)

	cred, err := m.Credential(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *refreshes != 0 {
		t.Errorf("expected no refresh without a refresh token, got %d", *refreshes)
	}
	if *flows != 1 {
		t.Errorf("expected one interactive flow invocation, got %d", *flows)
	}
	if !cred.Valid() {
		t.Error("expected a valid credential from the flow")
	}
	if store.saveCalls != 1 {
		t.Errorf("expected credential persisted, got %d saves", store.saveCalls)
	}
}

func TestCredentialRefreshFailureFallsBackToFlow(t *testing.T) {
	store := &memStore{cred: expiredCred()}
	m, _, flows := testManager(store)
	m.refresh = func(ctx context.Context, cred *Credential) (*Credential, error) {
		return nil, errors.New("invalid_grant")
	}

	cred, err := m.Credential(context.Background())
	if err != nil {
		t.Fatalf("expected fallback to interactive flow, got error: %v", err)
	}
	if *flows != 1 {
		t.Errorf("expected one interactive flow invocation, got %d", *flows)
	}
	if !cred.Valid() {
		t.Error("expected a valid credential after fallback")
	}
}

func TestCredentialHeadlessRefreshFailure(t *testing.T) {
	store := &memStore{cred: expiredCred()}
	m, _, flows := testManager(store)
	m.headless = true
	m.refresh = func(ctx context.Context, cred *Credential) (*Credential, error) {
		return nil, errors.New("invalid_grant")
	}

	_, err := m.Credential(context.Background())
	if !errors.Is(err, ErrInteractiveFlowUnavailable) {
		t.Fatalf("expected ErrInteractiveFlowUnavailable, got %v", err)
	}
	if *flows != 0 {
		t.Errorf("expected no interactive flow in headless mode, got %d", *flows)
	}
}

func TestCredentialHeadlessAbsent(t *testing.T) {
	m, _, _ := testManager(&memStore{})
	m.headless = true

	_, err := m.Credential(context.Background())
	if !errors.Is(err, ErrInteractiveFlowUnavailable) {
		t.Fatalf("expected ErrInteractiveFlowUnavailable, got %v", err)
	}
}

func TestCredentialStoreLoadError(t *testing.T) {
	store := &memStore{loadErr: errors.New("disk on fire")}
	m, _, _ := testManager(store)

	if _, err := m.Credential(context.Background()); err == nil {
		t.Error("expected store load error to propagate")
	}
}

func TestRevokeClearsCacheAndStore(t *testing.T) {
	store := &memStore{cred: validCred()}
	m, _, flows := testManager(store)

	if _, err := m.Credential(context.Background()); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	if err := m.Revoke(); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	// Next lookup must go through the flow again.
	if _, err := m.Credential(context.Background()); err != nil {
		t.Fatalf("after revoke: %v", err)
	}
	if *flows != 1 {
		t.Errorf("expected interactive flow after revoke, got %d invocations", *flows)
	}
}

func TestCredentialValidity(t *testing.T) {
	tests := []struct {
		name  string
		cred  *Credential
		valid bool
	}{
		{"nil", nil, false},
		{"empty access token", &Credential{Expiry: time.Now().Add(time.Hour)}, false},
		{"future expiry", &Credential{AccessToken: "a", Expiry: time.Now().Add(time.Hour)}, true},
		{"past expiry", &Credential{AccessToken: "a", Expiry: time.Now().Add(-time.Hour)}, false},
		{"inside leeway", &Credential{AccessToken: "a", Expiry: time.Now().Add(5 * time.Second)}, false},
		{"zero expiry", &Credential{AccessToken: "a"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cred.Valid(); got != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, got)
			}
		})
	}
}
