package auth_test

import (
	"context"
	"sync"

	"github.com/habedi/mscli/auth"
	"github.com/habedi/mscli/db"
)

type recordingNavigator struct {
	mu            sync.Mutex
	login         int
	notAuthorized int
}

func (n *recordingNavigator) ToLogin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.login++
}

func (n *recordingNavigator) ToNotAuthorized() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notAuthorized++
}

func (n *recordingNavigator) counts() (login, notAuthorized int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.login, n.notAuthorized
}

type mockAPI struct {
	mu sync.Mutex

	loginSession db.Session
	loginErr     error

	refreshSession db.Session
	refreshErr     error
	refreshCalls   int
	refreshTokens  []string

	logoutErr    error
	logoutCalls  int
	registerErr  error
	registerReqs []auth.RegisterRequest
}

func (m *mockAPI) Login(_ context.Context, _, _ string) (db.Session, error) {
	return m.loginSession, m.loginErr
}

func (m *mockAPI) Register(_ context.Context, req auth.RegisterRequest) (auth.RegisterResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerReqs = append(m.registerReqs, req)
	if m.registerErr != nil {
		return auth.RegisterResult{}, m.registerErr
	}
	return auth.RegisterResult{Message: "User created successfully", UserID: "42"}, nil
}

func (m *mockAPI) Refresh(_ context.Context, refreshToken string) (db.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshCalls++
	m.refreshTokens = append(m.refreshTokens, refreshToken)
	return m.refreshSession, m.refreshErr
}

func (m *mockAPI) Logout(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutCalls++
	return m.logoutErr
}

func sampleSession() db.Session {
	return db.Session{AccessToken: "T1", RefreshToken: "R1", Role: "USER", UserID: "7", Email: "a@b.com"}
}
