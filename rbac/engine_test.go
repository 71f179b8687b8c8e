package rbac

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/models"
	"github.com/dariomolina/intranet-auth/store"
	"github.com/dariomolina/intranet-auth/token"
)

// fixture builds a database with the supervisor permission set, an admin
// whose role has zero permission links (so only the sentinel can let it
// through), and a roleless user.
type fixture struct {
	engine     *Engine
	admin      models.User
	supervisor models.User
	roleless   models.User
	gdb        *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Role{}, &models.Permission{}))

	supervisorPerms := []string{
		"dashboard:view", "profile:view", "profile:edit",
		"users:view", "stats:view", "settings:view",
		"tickets:create", "tickets:manage",
	}
	permissions := make([]models.Permission, 0, len(supervisorPerms))
	for _, name := range supervisorPerms {
		parts := strings.SplitN(name, ":", 2)
		p := models.Permission{Name: name, Module: parts[0], Action: parts[1]}
		require.NoError(t, gdb.Create(&p).Error)
		permissions = append(permissions, p)
	}

	// Admin role deliberately holds no permission links at all.
	adminRole := models.Role{Name: "admin"}
	require.NoError(t, gdb.Create(&adminRole).Error)
	supervisorRole := models.Role{Name: "supervisor", Permissions: permissions}
	require.NoError(t, gdb.Create(&supervisorRole).Error)

	f := &fixture{gdb: gdb, engine: NewEngine(store.NewUserStore(gdb))}
	f.admin = models.User{Email: "admin@example.com", RoleID: &adminRole.ID}
	require.NoError(t, gdb.Create(&f.admin).Error)
	f.supervisor = models.User{Email: "supervisor@example.com", RoleID: &supervisorRole.ID}
	require.NoError(t, gdb.Create(&f.supervisor).Error)
	f.roleless = models.User{Email: "nobody@example.com"}
	require.NoError(t, gdb.Create(&f.roleless).Error)
	return f
}

func snapshotFor(u models.User, role string) *token.Snapshot {
	return &token.Snapshot{UserID: u.ID, Email: u.Email, Role: role, Permissions: []string{}}
}

func TestDecideEmptyRequirementAllows(t *testing.T) {
	f := newFixture(t)

	// Even without a principal.
	assert.NoError(t, f.engine.Decide(nil, nil))
	assert.NoError(t, f.engine.Decide(nil, []string{}))
	assert.NoError(t, f.engine.Decide(snapshotFor(f.roleless, ""), nil))
}

func TestDecideNoPrincipal(t *testing.T) {
	f := newFixture(t)

	err := f.engine.Decide(nil, []string{"users:view"})
	assert.True(t, apperr.IsStatus(err, http.StatusUnauthorized))
}

func TestDecideUnknownUser(t *testing.T) {
	f := newFixture(t)

	snap := &token.Snapshot{UserID: 9999, Permissions: []string{}}
	err := f.engine.Decide(snap, []string{"users:view"})
	assert.True(t, apperr.IsStatus(err, http.StatusUnauthorized))
}

func TestDecideAdminBypassesPermissionMatching(t *testing.T) {
	f := newFixture(t)
	snap := snapshotFor(f.admin, "admin")

	// The admin role has no permission rows; only the sentinel explains
	// these passing.
	assert.NoError(t, f.engine.Decide(snap, []string{"users:manage"}))
	assert.NoError(t, f.engine.Decide(snap, []string{"users:view", "settings:edit", "made:up"}))
}

func TestDecideSupervisorSetContainment(t *testing.T) {
	f := newFixture(t)
	snap := snapshotFor(f.supervisor, "supervisor")

	assert.NoError(t, f.engine.Decide(snap, []string{"users:view"}))

	err := f.engine.Decide(snap, []string{"users:manage"})
	assert.True(t, apperr.IsStatus(err, http.StatusForbidden))

	// AND semantics: holding one of two is not enough.
	err = f.engine.Decide(snap, []string{"users:view", "users:manage"})
	assert.True(t, apperr.IsStatus(err, http.StatusForbidden))
}

func TestDecideMatchingIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	snap := snapshotFor(f.supervisor, "supervisor")

	err := f.engine.Decide(snap, []string{"Users:View"})
	assert.True(t, apperr.IsStatus(err, http.StatusForbidden))
}

func TestDecideRolelessUser(t *testing.T) {
	f := newFixture(t)
	snap := snapshotFor(f.roleless, "")

	err := f.engine.Decide(snap, []string{"dashboard:view"})
	assert.True(t, apperr.IsStatus(err, http.StatusForbidden))

	assert.NoError(t, f.engine.Decide(snap, nil))
}

func TestDecideUsesCurrentStateNotSnapshot(t *testing.T) {
	f := newFixture(t)

	// The token still claims admin, but the database says supervisor:
	// the fresh fetch wins.
	staleSnap := snapshotFor(f.supervisor, "admin")
	err := f.engine.Decide(staleSnap, []string{"users:manage"})
	assert.True(t, apperr.IsStatus(err, http.StatusForbidden))
}

func TestDecideSentinelIsExact(t *testing.T) {
	f := newFixture(t)

	capitalized := models.Role{Name: "Admin"}
	require.NoError(t, f.gdb.Create(&capitalized).Error)
	user := models.User{Email: "capital@example.com", RoleID: &capitalized.ID}
	require.NoError(t, f.gdb.Create(&user).Error)

	err := f.engine.Decide(snapshotFor(user, "Admin"), []string{"users:view"})
	assert.True(t, apperr.IsStatus(err, http.StatusForbidden))
}

func TestCheckRoles(t *testing.T) {
	supervisor := &token.Snapshot{UserID: 1, Role: "supervisor", Permissions: []string{}}

	// No required roles: always allow, principal or not.
	assert.NoError(t, CheckRoles(nil, nil))
	assert.NoError(t, CheckRoles(supervisor, nil))

	err := CheckRoles(nil, []string{"admin"})
	assert.True(t, apperr.IsStatus(err, http.StatusUnauthorized))

	// OR semantics over the required set.
	assert.NoError(t, CheckRoles(supervisor, []string{"admin", "supervisor"}))

	err = CheckRoles(supervisor, []string{"admin"})
	assert.True(t, apperr.IsStatus(err, http.StatusForbidden))

	// Unlike Decide, this path trusts the snapshot as-is.
	impersonator := &token.Snapshot{UserID: 2, Role: "admin", Permissions: []string{}}
	assert.NoError(t, CheckRoles(impersonator, []string{"admin"}))
}
