package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/user"
	emailsvc "github.com/adrsy6394/SkillSpring/services/email"
	dummymail "github.com/adrsy6394/SkillSpring/services/email/dummy"
	dummydb "github.com/adrsy6394/SkillSpring/storage/database/dummy"
	testutil "github.com/adrsy6394/SkillSpring/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("opening dummy db: %v", err)
	}
	repo := dummydb.NewUserRepository(db)
	return user.NewService(repo, dummymail.NewService(), nil), repo
}

func TestService_registerIsIdempotentPerSubject(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	nu := user.NewUser{
		FullName: "Ada Lovelace",
		Email:    "ada@test.dev",
		Role:     user.RoleInstructor,
	}
	first, err := svc.Register(ctx, "sub-1", nu)
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	// a concurrent provider-side insert shows up as a second Register
	// for the same subject; the existing record must win untouched
	second, err := svc.Register(ctx, "sub-1", user.NewUser{
		FullName: "Someone Else",
		Email:    "ada@test.dev",
		Role:     user.RoleStudent,
	})
	if err != nil {
		t.Fatalf("second Register() failed: %v", err)
	}
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, user.RoleInstructor, second.Role)
	assert.Equal(t, "Ada Lovelace", second.FullName)
}

func TestService_registerSendsWelcomeEmail(t *testing.T) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("opening dummy db: %v", err)
	}
	conf := &core.Config{
		AppName:         "SkillSpring",
		DefaultFromName: "SkillSpring",
		DefaultFromAddr: "noreply@skillspring.test",
	}
	svc := user.NewService(dummydb.NewUserRepository(db), emailsvc.NewConsoleServiceMock(conf), nil)

	before := len(emailsvc.SentMessages)
	usr, err := svc.Register(context.Background(), "sub-1", user.NewUser{
		FullName: "Grace Hopper",
		Email:    "grace@test.dev",
		Role:     user.RoleInstructor,
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	sent := emailsvc.SentMessages[before:]
	if len(sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sent))
	}
	msg := sent[0]
	assert.Equal(t, usr.Email, msg.To[0].Address)
	assert.Equal(t, "Welcome to SkillSpring", msg.Subject)
	assert.Contains(t, msg.TextContent, usr.FullName)
}

func TestService_getByEmailNormalizes(t *testing.T) {
	svc, repo := setup(t)
	testutil.CreateUser(t, repo, "Ada Lovelace", "ada@test.dev", user.RoleStudent)

	usr, err := svc.GetByEmail(context.Background(), "  ADA@Test.Dev ")
	if err != nil {
		t.Fatalf("GetByEmail() failed: %v", err)
	}
	assert.Equal(t, "ada@test.dev", usr.Email)
}

func TestService_changeRole(t *testing.T) {
	svc, repo := setup(t)
	usr := testutil.CreateUser(t, repo, "Ada Lovelace", "ada@test.dev", user.RoleStudent)
	ctx := context.Background()

	if _, err := svc.ChangeRole(ctx, usr.ID, "superuser"); err == nil {
		t.Error("unknown role accepted")
	}

	promoted, err := svc.ChangeRole(ctx, usr.ID, user.RoleAdmin)
	if err != nil {
		t.Fatalf("ChangeRole() failed: %v", err)
	}
	assert.Equal(t, user.RoleAdmin, promoted.Role)
	assert.True(t, promoted.UpdatedAt.Valid)

	if _, err = svc.ChangeRole(ctx, "no-such-id", user.RoleAdmin); err != user.ErrNotFound {
		t.Errorf("ChangeRole(missing) error = %v, want ErrNotFound", err)
	}
}

func TestService_filter(t *testing.T) {
	svc, repo := setup(t)
	old := time.Now().UTC().Add(-48 * time.Hour)
	ada := testutil.CreateUser(t, repo, "Ada Lovelace", "ada@test.dev", user.RoleStudent, old)
	grace := testutil.CreateUser(t, repo, "Grace Hopper", "grace@test.dev", user.RoleInstructor)
	root := testutil.CreateUser(t, repo, "Root Admin", "root@test.dev", user.RoleAdmin)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter user.QueryFilter
		want   []user.User
	}{
		{name: "empty filter returns all", filter: user.QueryFilter{}, want: []user.User{ada, grace, root}},
		{name: "search matches name", filter: user.QueryFilter{Search: "hopper"}, want: []user.User{grace}},
		{name: "search matches email", filter: user.QueryFilter{Search: "root@"}, want: []user.User{root}},
		{name: "by role", filter: user.QueryFilter{Roles: []user.Role{user.RoleStudent, user.RoleAdmin}}, want: []user.User{ada, root}},
		{name: "created from", filter: user.QueryFilter{CreatedFrom: time.Now().UTC().Add(-time.Hour)}, want: []user.User{grace, root}},
		{name: "created to", filter: user.QueryFilter{CreatedTo: time.Now().UTC().Add(-24 * time.Hour)}, want: []user.User{ada}},
		{name: "no match", filter: user.QueryFilter{Search: "nobody"}, want: []user.User{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Filter(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Filter() failed: %v", err)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestNewUser_validate(t *testing.T) {
	valid := user.NewUser{
		FullName:        "Ada Lovelace",
		Email:           "ada@test.dev",
		Password:        "s3cured-Pa55word",
		PasswordConfirm: "s3cured-Pa55word",
		Role:            user.RoleStudent,
	}

	tests := []struct {
		name    string
		mutate  func(nu *user.NewUser)
		wantErr bool
	}{
		{name: "valid student", mutate: func(*user.NewUser) {}},
		{name: "valid instructor", mutate: func(nu *user.NewUser) { nu.Role = user.RoleInstructor }},
		{name: "admin role rejected at signup", mutate: func(nu *user.NewUser) { nu.Role = user.RoleAdmin }, wantErr: true},
		{name: "unknown role", mutate: func(nu *user.NewUser) { nu.Role = "superuser" }, wantErr: true},
		{name: "bad email", mutate: func(nu *user.NewUser) { nu.Email = "not-an-email" }, wantErr: true},
		{name: "password mismatch", mutate: func(nu *user.NewUser) { nu.PasswordConfirm = "other-Pa55word!" }, wantErr: true},
		{name: "password too short", mutate: func(nu *user.NewUser) { nu.Password = "aB3!"; nu.PasswordConfirm = "aB3!" }, wantErr: true},
		{name: "password all numeric", mutate: func(nu *user.NewUser) { nu.Password = "12345678901"; nu.PasswordConfirm = "12345678901" }, wantErr: true},
		{name: "password lacks complexity", mutate: func(nu *user.NewUser) { nu.Password = "alllowercase1"; nu.PasswordConfirm = "alllowercase1" }, wantErr: true},
		{
			name: "well-known password rejected regardless of case",
			mutate: func(nu *user.NewUser) {
				nu.Password = "P@ssw0rd"
				nu.PasswordConfirm = "P@ssw0rd"
			},
			wantErr: true,
		},
		{
			name: "password similar to email",
			mutate: func(nu *user.NewUser) {
				nu.Password = "Ada@test.dev1"
				nu.PasswordConfirm = "Ada@test.dev1"
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := valid
			tt.mutate(&nu)
			if err := nu.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
