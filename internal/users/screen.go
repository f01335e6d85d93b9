package users

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/masomo/roster/internal/api"
	"github.com/masomo/roster/internal/tabular"
	"github.com/masomo/roster/internal/ui/table"
)

// Service is the part of the API client the screen needs.
type Service interface {
	ListUsers(ctx context.Context) ([]api.User, error)
	Register(ctx context.Context, nu api.NewUser) (*api.User, error)
	UpdateUser(ctx context.Context, id api.UserID, uu api.UpdateUser) (*api.User, error)
	DeleteUser(ctx context.Context, id api.UserID) error
}

// Options configures a Screen.
type Options struct {
	PageSize    int
	WindowSize  int
	SearchDelay time.Duration
	// Scheduler debounces search. Nil uses a table.Scheduler for the TUI.
	Scheduler tabular.Scheduler
	Logger    *zap.Logger
	// Async starts API calls. Defaults to a new goroutine per call.
	Async func(func())
}

// Screen is the users table: a tabular view fed by the API, with its row
// actions calling back into the API and reporting through a table.Host.
type Screen struct {
	ctx   context.Context
	svc   Service
	log   *zap.Logger
	async func(func())
	view  *tabular.View
	sched *table.Scheduler
	host  table.Host
	users []api.User
}

// NewScreen builds the screen around an initial page of users.
func NewScreen(ctx context.Context, svc Service, users []api.User, opts Options) *Screen {
	s := &Screen{
		ctx:   ctx,
		svc:   svc,
		log:   opts.Logger,
		async: opts.Async,
		users: slices.Clone(users),
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.async == nil {
		s.async = func(fn func()) { go fn() }
	}
	s.host = logHost{log: s.log}

	sched := opts.Scheduler
	if sched == nil {
		s.sched = table.NewScheduler()
		sched = s.sched
	}

	s.view = tabular.New(ToRecords(s.users), tabular.Options{
		Columns:     Columns(),
		SearchKeys:  SearchKeys,
		PageSize:    opts.PageSize,
		WindowSize:  opts.WindowSize,
		SearchDelay: opts.SearchDelay,
		Scheduler:   sched,
		Actions: tabular.Actions{
			OnRow:     s.onRow,
			OnAdd:     s.onAdd,
			OnEdit:    s.onEdit,
			OnDelete:  s.onDelete,
			OnRefresh: s.Reload,
		},
	})
	return s
}

// View exposes the underlying tabular view.
func (s *Screen) View() *tabular.View { return s.view }

// Users returns the users currently held by the screen.
func (s *Screen) Users() []api.User { return s.users }

// Attach routes notices, forms and results to h.
func (s *Screen) Attach(h table.Host) { s.host = h }

// Display shows the screen through the table package.
func (s *Screen) Display(title string, opts table.DisplayOptions) error {
	opts.Scheduler = s.sched
	opts.Attach = s.Attach
	return table.DisplayResults(title, s.view, opts)
}

// Reload fetches the user list again and replaces the view's records.
func (s *Screen) Reload() {
	s.async(func() {
		users, err := s.svc.ListUsers(s.ctx)
		s.host.Do(func() {
			if err != nil {
				s.fail("reload users", err)
				return
			}
			s.setUsers(users)
		})
	})
}

// setUsers must run on the UI loop.
func (s *Screen) setUsers(users []api.User) {
	s.users = users
	s.view.SetRecords(ToRecords(users))
}

func (s *Screen) find(id api.UserID) (api.User, int, bool) {
	for i, u := range s.users {
		if u.ID == id {
			return u, i, true
		}
	}
	return api.User{}, -1, false
}

func (s *Screen) fail(action string, err error) {
	s.log.Warn("users: "+action+" failed", zap.Error(err))
	s.host.Notify(table.LevelError, fmt.Sprintf("%s: %s", action, err))
}

// ═══════════════════════════════════════════════════════════════════════════
// Row actions
// ═══════════════════════════════════════════════════════════════════════════

func (s *Screen) onRow(r tabular.Record) {
	u, _, ok := s.find(RecordID(r))
	if !ok {
		return
	}
	parts := []string{u.Username}
	if u.Email != "" {
		parts = append(parts, u.Email)
	}
	if roles := renderRoles(r); roles != "" {
		parts = append(parts, roles)
	}
	parts = append(parts, "joined "+renderTime(u.CreatedAt), "last login "+renderLastLogin(r))
	s.host.Notify(table.LevelInfo, strings.Join(parts, " · "))
}

func (s *Screen) onAdd() {
	s.host.OpenForm(s.AddForm())
}

func (s *Screen) onEdit(r tabular.Record) {
	u, _, ok := s.find(RecordID(r))
	if !ok {
		s.host.Notify(table.LevelWarning, "user is no longer listed")
		return
	}
	s.host.OpenForm(s.EditForm(u))
}

func (s *Screen) onDelete(r tabular.Record) {
	id := RecordID(r)
	label := r.Label()
	s.async(func() {
		err := s.svc.DeleteUser(s.ctx, id)
		s.host.Do(func() {
			if err != nil {
				s.fail("delete "+label, err)
				return
			}
			s.log.Info("user deleted", zap.String("id", id.String()))
			if _, i, ok := s.find(id); ok {
				s.setUsers(slices.Delete(slices.Clone(s.users), i, i+1))
			}
			s.host.Notify(table.LevelSuccess, "Deleted "+label)
		})
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Forms
// ═══════════════════════════════════════════════════════════════════════════

// AddForm collects a NewUser and registers it.
func (s *Screen) AddForm() table.Form {
	return table.Form{
		Title: "Add user",
		Fields: []table.Field{
			{Key: KeyName, Label: "Name"},
			{Key: KeyUsername, Label: "Username"},
			{Key: KeyEmail, Label: "Email"},
			{Key: "password", Label: "Password", Secret: true},
			{Key: "password_confirm", Label: "Confirm", Secret: true},
			{Key: KeyRoles, Label: "Roles", Placeholder: "student:, teacher:"},
		},
		Submit: func(values map[string]string) error {
			nu := NewUserFromValues(values)
			if err := Validate(&nu); err != nil {
				return err
			}
			s.create(nu)
			return nil
		},
	}
}

// EditForm edits u and previews the change before it is saved.
func (s *Screen) EditForm(u api.User) table.Form {
	before := api.UpdateFrom(u)
	values := FormValues(u)
	return table.Form{
		Title: "Edit " + u.Username,
		Fields: []table.Field{
			{Key: KeyName, Label: "Name", Value: values[KeyName]},
			{Key: KeyUsername, Label: "Username", Value: values[KeyUsername]},
			{Key: KeyEmail, Label: "Email", Value: values[KeyEmail]},
			{Key: KeyRoles, Label: "Roles", Value: values[KeyRoles]},
			{Key: KeyActive, Label: "Active", Value: values[KeyActive]},
			{Key: "password", Label: "New password", Secret: true},
			{Key: "password_confirm", Label: "Confirm", Secret: true},
		},
		Preview: func(values map[string]string) string {
			after, err := UpdateFromValues(values)
			if err != nil {
				return ""
			}
			return Diff(before, after)
		},
		Submit: func(values map[string]string) error {
			uu, err := UpdateFromValues(values)
			if err != nil {
				return err
			}
			if err := Validate(&uu); err != nil {
				return err
			}
			if Diff(before, uu) == "" {
				s.host.Notify(table.LevelInfo, "No changes")
				return nil
			}
			s.update(u.ID, uu)
			return nil
		},
	}
}

func (s *Screen) create(nu api.NewUser) {
	s.async(func() {
		created, err := s.svc.Register(s.ctx, nu)
		s.host.Do(func() {
			if err != nil {
				s.fail("add user", err)
				return
			}
			s.log.Info("user created", zap.String("id", created.ID.String()))
			s.setUsers(append(slices.Clone(s.users), *created))
			s.host.Notify(table.LevelSuccess, "Added "+displayName(*created))
			// the server fills in fields the form never sent
			s.Reload()
		})
	})
}

func (s *Screen) update(id api.UserID, uu api.UpdateUser) {
	s.async(func() {
		updated, err := s.svc.UpdateUser(s.ctx, id, uu)
		s.host.Do(func() {
			if err != nil {
				s.fail("update user", err)
				return
			}
			s.log.Info("user updated", zap.String("id", id.String()))
			users := slices.Clone(s.users)
			if _, i, ok := s.find(id); ok {
				users[i] = *updated
			}
			s.setUsers(users)
			s.host.Notify(table.LevelSuccess, "Saved "+displayName(*updated))
			s.Reload()
		})
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Form values
// ═══════════════════════════════════════════════════════════════════════════

// ParseRoles splits a comma separated role list.
func ParseRoles(s string) []string {
	var roles []string
	for _, part := range strings.Split(s, ",") {
		if role := strings.ToLower(strings.TrimSpace(part)); role != "" {
			// "teacher" is shorthand for "teacher:"
			if !strings.Contains(role, ":") {
				role += ":"
			}
			roles = append(roles, role)
		}
	}
	return roles
}

// FormValues returns the edit form's starting values for u.
func FormValues(u api.User) map[string]string {
	return map[string]string{
		KeyName:     u.Name,
		KeyUsername: u.Username,
		KeyEmail:    u.Email,
		KeyRoles:    strings.Join(u.AllRoles(), ", "),
		KeyActive:   yesNo(u.Active()),
	}
}

// NewUserFromValues reads the add form.
func NewUserFromValues(values map[string]string) api.NewUser {
	return api.NewUser{
		Name:            strings.TrimSpace(values[KeyName]),
		Username:        strings.ToLower(strings.TrimSpace(values[KeyUsername])),
		Email:           strings.ToLower(strings.TrimSpace(values[KeyEmail])),
		Password:        values["password"],
		PasswordConfirm: values["password_confirm"],
		Roles:           ParseRoles(values[KeyRoles]),
	}
}

// UpdateFromValues reads the edit form.
func UpdateFromValues(values map[string]string) (api.UpdateUser, error) {
	uu := api.UpdateUser{
		Name:            strings.TrimSpace(values[KeyName]),
		Username:        strings.ToLower(strings.TrimSpace(values[KeyUsername])),
		Email:           strings.ToLower(strings.TrimSpace(values[KeyEmail])),
		Password:        values["password"],
		PasswordConfirm: values["password_confirm"],
		Roles:           ParseRoles(values[KeyRoles]),
	}
	if raw, ok := values[KeyActive]; ok {
		active, err := parseYesNo(raw)
		if err != nil {
			return uu, ValidationError{KeyActive: err.Error()}
		}
		uu.IsActive = &active
	}
	return uu, nil
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true, nil
	case "n", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("must be yes or no")
}

func displayName(u api.User) string {
	if u.Username != "" {
		return u.Username
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func renderTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format("2006-01-02")
}

// logHost stands in for a table.Host when no TUI is attached: work runs
// inline and notices go to the log.
type logHost struct {
	log *zap.Logger
}

func (h logHost) Do(fn func()) { fn() }

func (h logHost) Notify(level table.Level, msg string) {
	switch level {
	case table.LevelError:
		h.log.Error(msg)
	case table.LevelWarning:
		h.log.Warn(msg)
	default:
		h.log.Info(msg)
	}
}

func (h logHost) OpenForm(f table.Form) {
	h.log.Debug("form needs an interactive terminal", zap.String("form", f.Title))
}
