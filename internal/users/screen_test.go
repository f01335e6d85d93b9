package users

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masomo/roster/internal/api"
	"github.com/masomo/roster/internal/tabular"
	"github.com/masomo/roster/internal/ui/styles"
	"github.com/masomo/roster/internal/ui/table"
)

type fakeService struct {
	mu        sync.Mutex
	users     []api.User
	deleted   []api.UserID
	updated   map[api.UserID]api.UpdateUser
	listCalls int
	failNext  error
}

func (f *fakeService) takeErr() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeService) ListUsers(context.Context) ([]api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if err := f.takeErr(); err != nil {
		return nil, err
	}
	return append([]api.User(nil), f.users...), nil
}

func (f *fakeService) Register(_ context.Context, nu api.NewUser) (*api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}
	u := api.User{ID: "99", Name: nu.Name, Username: nu.Username, Email: nu.Email, Roles: nu.Roles}
	f.users = append(f.users, u)
	return &u, nil
}

func (f *fakeService) UpdateUser(_ context.Context, id api.UserID, uu api.UpdateUser) (*api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}
	if f.updated == nil {
		f.updated = make(map[api.UserID]api.UpdateUser)
	}
	f.updated[id] = uu
	u := api.User{ID: id, Name: uu.Name, Username: uu.Username, Email: uu.Email, Roles: uu.Roles, IsActive: uu.IsActive}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i] = u
		}
	}
	return &u, nil
}

func (f *fakeService) DeleteUser(_ context.Context, id api.UserID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type notice struct {
	level table.Level
	msg   string
}

// recordingHost runs work inline and remembers what the screen asked for.
type recordingHost struct {
	notices []notice
	forms   []table.Form
}

func (h *recordingHost) Do(fn func()) { fn() }

func (h *recordingHost) Notify(level table.Level, msg string) {
	h.notices = append(h.notices, notice{level, msg})
}

func (h *recordingHost) OpenForm(f table.Form) { h.forms = append(h.forms, f) }

func (h *recordingHost) last() notice {
	if len(h.notices) == 0 {
		return notice{}
	}
	return h.notices[len(h.notices)-1]
}

func sampleUsers() []api.User {
	return []api.User{
		{ID: "1", Name: "Alice Mbuyi", Username: "alicem", Email: "alice@example.com", Roles: []string{api.RoleAdminOwner}},
		{ID: "2", Name: "Bob Kasongo", Username: "bobkas", Email: "bob@example.com", Roles: []string{api.RoleTeacher}},
		{ID: "3", Name: "Carol", Username: "carolk", Email: "carol@school.cd", Roles: []string{api.RoleStudent}},
	}
}

func newTestScreen(t *testing.T) (*Screen, *fakeService, *recordingHost) {
	t.Helper()
	svc := &fakeService{users: sampleUsers()}
	s := NewScreen(context.Background(), svc, svc.users, Options{
		PageSize:  2,
		Scheduler: tabular.Immediate{},
		Async:     func(fn func()) { fn() },
	})
	h := &recordingHost{}
	s.Attach(h)
	return s, svc, h
}

func TestScreen_Search(t *testing.T) {
	s, _, _ := newTestScreen(t)
	v := s.View()

	assert.Equal(t, 2, v.TotalPages())
	v.Type("SCHOOL")
	require.Equal(t, 1, v.Len())
	assert.Equal(t, "carolk", v.Rows()[0]["username"])

	v.Type("kasongo")
	require.Equal(t, 1, v.Len())
	assert.Equal(t, "bobkas", v.Rows()[0]["username"])

	// roles are shown but not searched
	v.Type("teacher")
	assert.Equal(t, 0, v.Len())
}

func TestScreen_DeleteFlow(t *testing.T) {
	s, svc, h := newTestScreen(t)
	v := s.View()

	require.True(t, v.RequestDelete(1))
	_, label, ok := v.PendingDelete()
	require.True(t, ok)
	assert.Equal(t, "bobkas", label)
	assert.Empty(t, svc.deleted, "nothing is deleted before confirmation")

	require.True(t, v.ConfirmDelete())
	assert.Equal(t, []api.UserID{"2"}, svc.deleted)
	assert.Len(t, s.Users(), 2)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, notice{table.LevelSuccess, "Deleted bobkas"}, h.last())
}

func TestScreen_DeleteFailureKeepsRow(t *testing.T) {
	s, svc, h := newTestScreen(t)
	svc.failNext = errors.New("403: forbidden")

	v := s.View()
	require.True(t, v.RequestDelete(0))
	v.ConfirmDelete()

	assert.Len(t, s.Users(), 3)
	assert.Equal(t, table.LevelError, h.last().level)
	assert.Contains(t, h.last().msg, "forbidden")
}

func TestScreen_DeleteClampsPage(t *testing.T) {
	s, _, _ := newTestScreen(t)
	v := s.View()
	require.True(t, v.Last())
	require.Equal(t, 2, v.Page())

	require.True(t, v.RequestDelete(0))
	v.ConfirmDelete()
	assert.Equal(t, 1, v.TotalPages())
	assert.Equal(t, 1, v.Page())
}

func TestScreen_AddForm(t *testing.T) {
	s, svc, h := newTestScreen(t)

	require.True(t, s.View().Add())
	require.Len(t, h.forms, 1)
	form := h.forms[0]

	err := form.Submit(map[string]string{"name": "", "username": "dan", "password": "x", "password_confirm": "y"})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "this field is required", verr["name"])
	assert.Contains(t, verr, "username")
	assert.Contains(t, verr, "password_confirm")
	assert.Len(t, svc.users, 3)

	err = form.Submit(map[string]string{
		"name": "Dan Ilunga", "username": "Dan_Ilunga", "email": "",
		"password": "secret", "password_confirm": "secret", "roles": "teacher",
	})
	require.NoError(t, err)
	require.Len(t, s.Users(), 4)
	added := s.Users()[3]
	assert.Equal(t, "dan_ilunga", added.Username)
	assert.Equal(t, []string{api.RoleTeacher}, added.Roles)
	assert.Equal(t, notice{table.LevelSuccess, "Added dan_ilunga"}, h.last())
}

func TestScreen_AddReloadsList(t *testing.T) {
	s, svc, h := newTestScreen(t)
	require.True(t, s.View().Add())
	form := h.forms[0]

	// changed on the server since the screen loaded
	svc.users[0].Name = "Alice M."
	require.NoError(t, form.Submit(map[string]string{
		"name": "Dan Ilunga", "username": "dan", "password": "secret", "password_confirm": "secret",
	}))
	assert.Equal(t, 1, svc.listCalls)
	assert.Equal(t, "Alice M.", s.Users()[0].Name)
	assert.Len(t, s.Users(), 4)
}

func TestScreen_FailedAddSkipsReload(t *testing.T) {
	s, svc, h := newTestScreen(t)
	require.True(t, s.View().Add())

	svc.failNext = errors.New("conflict")
	require.NoError(t, h.forms[0].Submit(map[string]string{
		"name": "Dan Ilunga", "username": "dan", "password": "secret", "password_confirm": "secret",
	}))
	assert.Equal(t, 0, svc.listCalls)
	assert.Equal(t, table.LevelError, h.last().level)
	assert.Len(t, s.Users(), 3)
}

func TestScreen_EditForm(t *testing.T) {
	styles.SetNoColor(true)
	t.Cleanup(func() { styles.SetNoColor(false) })

	s, svc, h := newTestScreen(t)
	require.True(t, s.View().Edit(0))
	require.Len(t, h.forms, 1)
	form := h.forms[0]

	values := map[string]string{}
	for _, f := range form.Fields {
		values[f.Key] = f.Value
	}
	assert.Equal(t, "alicem", values["username"])
	assert.Equal(t, "yes", values["active"])
	assert.Empty(t, form.Preview(values))

	// unchanged submit is a no-op
	require.NoError(t, form.Submit(values))
	assert.Empty(t, svc.updated)
	assert.Equal(t, "No changes", h.last().msg)

	values["email"] = "alice@school.cd"
	values["active"] = "no"
	assert.Equal(t,
		"- email: alice@example.com\n+ email: alice@school.cd\n- active: yes\n+ active: no",
		form.Preview(values))

	values["active"] = "maybe"
	err := form.Submit(values)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be yes or no", verr["active"])

	values["active"] = "no"
	require.NoError(t, form.Submit(values))
	require.Contains(t, svc.updated, api.UserID("1"))
	assert.Equal(t, 1, svc.listCalls)
	assert.Equal(t, "alice@school.cd", s.Users()[0].Email)
	assert.False(t, s.Users()[0].Active())
	assert.Equal(t, "no", Columns()[4].Cell(s.View().Rows()[0]))
}

func TestScreen_Reload(t *testing.T) {
	s, svc, h := newTestScreen(t)
	svc.users = svc.users[:1]
	require.True(t, s.View().Refresh())
	assert.Equal(t, 1, s.View().Len())

	svc.failNext = errors.New("offline")
	s.Reload()
	assert.Equal(t, 1, s.View().Len())
	assert.Equal(t, table.LevelError, h.last().level)
}

func TestScreen_RowShowsSummary(t *testing.T) {
	s, _, h := newTestScreen(t)
	require.True(t, s.View().Activate(0))
	assert.Equal(t, table.LevelInfo, h.last().level)
	assert.Contains(t, h.last().msg, "alice@example.com")
	assert.Contains(t, h.last().msg, "admin:owner")
	assert.Contains(t, h.last().msg, "last login never")
}

func TestColumns_Render(t *testing.T) {
	off := false
	r := ToRecord(api.User{
		ID: "5", Username: "eve", Roles: []string{api.RoleTeacher, api.RoleStudent},
		IsActive: &off, LastLogin: time.Now().Add(-3 * time.Hour),
	})
	cells := map[string]string{}
	for _, c := range Columns() {
		cells[c.Key] = c.Cell(r)
	}
	assert.Equal(t, "teacher, student", cells[KeyRoles])
	assert.Equal(t, "no", cells[KeyActive])
	assert.Equal(t, "3 hours ago", cells[KeyLastLogin])
	assert.Equal(t, api.UserID("5"), RecordID(r))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		fields []string
	}{
		{"valid", &api.NewUser{Name: "A", Email: "a@b.cd", Password: "p", PasswordConfirm: "p"}, nil},
		{"username or email", &api.NewUser{Name: "A", Password: "p", PasswordConfirm: "p"}, []string{"username", "email"}},
		{"short username", &api.NewUser{Name: "A", Username: "abc", Password: "p", PasswordConfirm: "p"}, []string{"username"}},
		{"bad chars", &api.NewUser{Name: "A", Username: "abc-def", Password: "p", PasswordConfirm: "p"}, []string{"username"}},
		{"bad email", &api.NewUser{Name: "A", Email: "nope", Password: "p", PasswordConfirm: "p"}, []string{"email"}},
		{"unknown role", &api.NewUser{Name: "A", Email: "a@b.cd", Password: "p", PasswordConfirm: "p", Roles: []string{"janitor:"}}, []string{"roles"}},
		{"update ok", &api.UpdateUser{Username: "someone"}, nil},
		{"update confirm", &api.UpdateUser{Password: "p"}, []string{"password_confirm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.fields {
				assert.Contains(t, verr, f)
			}
		})
	}
}

func TestParseRoles(t *testing.T) {
	assert.Equal(t, []string{"teacher:", "admin:owner"}, ParseRoles(" Teacher , admin:owner,, "))
	assert.Nil(t, ParseRoles(""))
}

func TestFind(t *testing.T) {
	users := sampleUsers()

	u, ok := Find(users, "2")
	require.True(t, ok)
	assert.Equal(t, "bobkas", u.Username)

	u, ok = Find(users, "CAROLK")
	require.True(t, ok)
	assert.Equal(t, api.UserID("3"), u.ID)

	u, ok = Find(users, "alice@example.com")
	require.True(t, ok)
	assert.Equal(t, "alicem", u.Username)

	_, ok = Find(users, "nobody")
	assert.False(t, ok)
	_, ok = Find(users, " ")
	assert.False(t, ok)
}

func TestFormValues_RoundTrip(t *testing.T) {
	u := sampleUsers()[1]
	uu, err := UpdateFromValues(FormValues(u))
	require.NoError(t, err)
	assert.Empty(t, Diff(api.UpdateFrom(u), uu))
}
