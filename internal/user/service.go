package user

import (
	"context"
	defError "errors"
	"rab-dashboard/auth"
	"rab-dashboard/internal/audit"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/errors"
	"time"
)

// ErrInvalidCredentials means no active user matched the identifier and password.
var ErrInvalidCredentials = defError.New("invalid credentials")

// Service defines the interface for user business logic
type Service interface {
	Login(ctx context.Context, identifier, password string) (*domain.User, error)
	Logout(ctx context.Context, actor string) error
	CurrentUser(ctx context.Context) *domain.Session
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.SafeUser, error)
	CreateUser(ctx context.Context, actor string, form *FormCreateUser) (*domain.User, error)
	UpdateUser(ctx context.Context, actor, id string, form *FormUpdateUser) (*domain.User, error)
	DeleteUser(ctx context.Context, actor, id string) error
}

// DefaultService implements Service
type DefaultService struct {
	repository UserRepository
	audit      audit.Recorder
	now        func() time.Time
}

// NewService creates a new user service
func NewService(repository UserRepository, recorder audit.Recorder) Service {
	if recorder == nil {
		recorder = audit.Discard{}
	}
	return &DefaultService{
		repository: repository,
		audit:      recorder,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Login authenticates an active user by email or username. On success the
// user's lastLogin is stamped and the current session is replaced.
func (s *DefaultService) Login(ctx context.Context, identifier, password string) (*domain.User, error) {
	users, err := s.repository.ListUsers(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}

	for i := range users {
		candidate := &users[i]
		if !candidate.Matches(identifier) || !candidate.IsActive() {
			continue
		}
		if !auth.CheckPassword(candidate.PasswordHash, password) {
			continue
		}

		now := s.now()
		patch, err := domain.NewPatch(map[string]any{"lastLogin": now})
		if err != nil {
			return nil, errors.Internal(err)
		}
		updated, err := s.repository.PatchUser(ctx, candidate.ID, patch)
		if err != nil {
			return nil, errors.FromStore(err, "User")
		}

		session := domain.Session{User: updated.ToSafeUser(), StartedAt: now}
		if err := s.repository.SaveSession(ctx, session); err != nil {
			return nil, errors.Internal(err)
		}

		s.audit.Record(updated.Username, "login", updated.ID, "")
		return &updated, nil
	}

	return nil, errors.Unauthorized("Wrong username/email or password", ErrInvalidCredentials)
}

// Logout clears the current session. The Users collection is untouched.
func (s *DefaultService) Logout(ctx context.Context, actor string) error {
	if err := s.repository.ClearSession(ctx); err != nil {
		return errors.Internal(err)
	}
	s.audit.Record(actor, "logout", "", "")
	return nil
}

func (s *DefaultService) CurrentUser(ctx context.Context) *domain.Session {
	return s.repository.LoadSession(ctx)
}

// GetUserByID gets a user by ID
func (s *DefaultService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repository.GetUser(ctx, id)
	if err != nil {
		return nil, errors.FromStore(err, "User")
	}
	return &u, nil
}

func (s *DefaultService) ListUsers(ctx context.Context) ([]domain.SafeUser, error) {
	users, err := s.repository.ListUsers(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	out := make([]domain.SafeUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToSafeUser())
	}
	return out, nil
}

func (s *DefaultService) CreateUser(ctx context.Context, actor string, form *FormCreateUser) (*domain.User, error) {
	if err := s.checkUnique(ctx, "", form.Username, form.Email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return nil, errors.UnprocessableEntity("Invalid password", err)
	}

	status := form.Status
	if status == "" {
		status = domain.StatusActive
	}

	created, err := s.repository.CreateUser(ctx, domain.User{
		Username:     form.Username,
		Name:         form.Name,
		Email:        form.Email,
		Role:         form.Role,
		Status:       status,
		PasswordHash: hash,
		PhotoURL:     form.PhotoURL,
		Permissions:  domain.NewStringSet(form.Permissions...),
		Plant:        domain.NewStringSet(form.Plant...),
	})
	if err != nil {
		return nil, errors.FromStore(err, "User")
	}

	s.audit.Record(actor, "create user", created.ID, created.Username)
	return &created, nil
}

func (s *DefaultService) UpdateUser(ctx context.Context, actor, id string, form *FormUpdateUser) (*domain.User, error) {
	fields := make(map[string]any)
	var username, email string
	if form.Username != nil {
		username = *form.Username
		fields["username"] = username
	}
	if form.Email != nil {
		email = *form.Email
		fields["email"] = email
	}
	if form.Name != nil {
		fields["name"] = *form.Name
	}
	if form.Role != nil {
		fields["role"] = *form.Role
	}
	if form.Status != nil {
		fields["status"] = *form.Status
	}
	if form.PhotoURL != nil {
		fields["photoUrl"] = *form.PhotoURL
	}
	if form.Permissions != nil {
		fields["permissions"] = domain.NewStringSet(*form.Permissions...)
	}
	if form.Plant != nil {
		fields["plant"] = domain.NewStringSet(*form.Plant...)
	}
	if form.Password != "" {
		hash, err := auth.HashPassword(form.Password)
		if err != nil {
			return nil, errors.UnprocessableEntity("Invalid password", err)
		}
		fields["passwordHash"] = hash
	}

	if err := s.checkUnique(ctx, id, username, email); err != nil {
		return nil, err
	}

	patch, err := domain.NewPatch(fields)
	if err != nil {
		return nil, errors.UnprocessableEntity("Invalid user", err)
	}
	updated, err := s.repository.PatchUser(ctx, id, patch)
	if err != nil {
		return nil, errors.FromStore(err, "User")
	}
	s.audit.Record(actor, "update user", id, "")

	if err := s.syncSession(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *DefaultService) DeleteUser(ctx context.Context, actor, id string) error {
	if err := s.repository.RemoveUser(ctx, id); err != nil {
		return errors.FromStore(err, "User")
	}
	s.audit.Record(actor, "delete user", id, "")

	return s.syncSession(ctx, &domain.User{ID: id})
}

// syncSession keeps the current session in step with a changed user. A
// session whose user was deleted or deactivated is cleared; otherwise it is
// rewritten from u. A zero Username marks u as deleted.
func (s *DefaultService) syncSession(ctx context.Context, u *domain.User) error {
	session := s.repository.LoadSession(ctx)
	if session == nil || session.User.ID != u.ID {
		return nil
	}

	if u.Username == "" || !u.IsActive() {
		if err := s.repository.ClearSession(ctx); err != nil {
			return errors.Internal(err)
		}
		return nil
	}

	session.User = u.ToSafeUser()
	if err := s.repository.SaveSession(ctx, *session); err != nil {
		return errors.Internal(err)
	}
	return nil
}

// checkUnique rejects a username or email that already identifies a user
// other than selfID. Login matches either field, so both are checked against both.
func (s *DefaultService) checkUnique(ctx context.Context, selfID, username, email string) error {
	if username == "" && email == "" {
		return nil
	}
	users, err := s.repository.ListUsers(ctx)
	if err != nil {
		return errors.Internal(err)
	}
	for i := range users {
		u := &users[i]
		if u.ID == selfID {
			continue
		}
		if (username != "" && u.Matches(username)) || (email != "" && u.Matches(email)) {
			return errors.Conflict("Username or email already in use", nil)
		}
	}
	return nil
}
