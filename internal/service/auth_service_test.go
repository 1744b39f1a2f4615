package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/config"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/repository"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo(users ...*model.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, companyID uuid.UUID, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.CompanyID != companyID {
			continue
		}
		if !includeInactive && !u.IsActive {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, companyID, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok || u.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = false
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, companyID, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok || u.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = true
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
}

func newTestUser(companyID uuid.UUID, username, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &model.User{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Username:     username,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
}

func TestLogin_Success(t *testing.T) {
	companyID := uuid.New()
	user := newTestUser(companyID, "cashier1", "secret123", model.RoleCashier)
	svc := NewAuthService(newStubUserRepo(user), authTestConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, model.RoleCashier, resp.User.Role)

	// Claims carry the company so handlers never trust a client-sent tenant.
	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, companyID.String(), claims["company_id"])
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, model.RoleCashier, claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	user := newTestUser(uuid.New(), "cashier1", "secret123", model.RoleCashier)
	svc := NewAuthService(newStubUserRepo(user), authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUsername(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	user := newTestUser(uuid.New(), "gone", "secret123", model.RoleManager)
	user.IsActive = false
	svc := NewAuthService(newStubUserRepo(user), authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "gone", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_IssuesNewPair(t *testing.T) {
	user := newTestUser(uuid.New(), "manager1", "secret123", model.RoleManager)
	svc := NewAuthService(newStubUserRepo(user), authTestConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "manager1", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, user.ID.String(), refreshed.User.ID)
}

func TestRefresh_GarbageTokenRejected(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), authTestConfig())

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestRefresh_DeactivatedUserRejected(t *testing.T) {
	companyID := uuid.New()
	user := newTestUser(companyID, "manager1", "secret123", model.RoleManager)
	repo := newStubUserRepo(user)
	svc := NewAuthService(repo, authTestConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "manager1", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(context.Background(), companyID, user.ID))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.Error(t, err)
}

func TestCreateUser_HashesPassword(t *testing.T) {
	companyID := uuid.New()
	repo := newStubUserRepo()
	svc := NewAuthService(repo, authTestConfig())

	resp, err := svc.CreateUser(context.Background(), companyID, dto.CreateUserRequest{
		Username: "newcashier",
		Name:     "New Cashier",
		Password: "secret123",
		Role:     model.RoleCashier,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsActive)

	stored, err := repo.FindByUsername(context.Background(), "newcashier")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestUpdateUser_CrossCompanyRejected(t *testing.T) {
	user := newTestUser(uuid.New(), "cashier1", "secret123", model.RoleCashier)
	svc := NewAuthService(newStubUserRepo(user), authTestConfig())

	name := "Renamed"
	_, err := svc.UpdateUser(context.Background(), uuid.New(), user.ID, dto.UpdateUserRequest{Name: &name})
	assert.Error(t, err)
}

func TestListUsers_ExcludesInactiveByDefault(t *testing.T) {
	companyID := uuid.New()
	active := newTestUser(companyID, "active1", "secret123", model.RoleCashier)
	inactive := newTestUser(companyID, "inactive1", "secret123", model.RoleCashier)
	inactive.IsActive = false
	svc := NewAuthService(newStubUserRepo(active, inactive), authTestConfig())

	users, err := svc.ListUsers(context.Background(), companyID, false)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "active1", users[0].Username)

	all, err := svc.ListUsers(context.Background(), companyID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
