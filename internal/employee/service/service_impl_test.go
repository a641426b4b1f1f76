package service

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/opencanteen/mensa/internal/directory"
	"github.com/opencanteen/mensa/internal/employee/domain"
	"github.com/opencanteen/mensa/internal/employee/repository"
	orgdomain "github.com/opencanteen/mensa/internal/organization/domain"
	orgrepository "github.com/opencanteen/mensa/internal/organization/repository"
	orgservice "github.com/opencanteen/mensa/internal/organization/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type directoryStub struct {
	mu          sync.Mutex
	registered  []string
	deleted     []string
	registerErr error
}

func (d *directoryStub) Register(_ context.Context, identity directory.Identity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.registerErr != nil {
		return d.registerErr
	}
	d.registered = append(d.registered, identity.EmployeeCode)
	return nil
}

func (d *directoryStub) Delete(_ context.Context, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleted = append(d.deleted, email)
	return nil
}

func setupEmployeeService(t *testing.T) (domain.Service, string, *directoryStub) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&orgdomain.Organization{}, &domain.Employee{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	orgSvc := orgservice.New(orgservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  orgrepository.Provide(),
	})
	org, err := orgSvc.Create(context.Background(), orgdomain.CreateRequest{Name: "Acme Rubber"})
	require.NoError(t, err)

	dir := &directoryStub{}
	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Repo:      repository.Provide(),
		OrgSvc:    orgSvc,
		Directory: dir,
	})
	return svc, org.ID, dir
}

func createRequest(orgID, name string) domain.CreateRequest {
	birth := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	return domain.CreateRequest{
		OrganizationID: orgID,
		Name:           name,
		Role:           "staff",
		Email:          name + "@example.com",
		BirthDate:      &birth,
		Salary:         95000,
	}
}

func TestCreateDrawsSequentialCodes(t *testing.T) {
	svc, orgID, _ := setupEmployeeService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, createRequest(orgID, "alice"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, createRequest(orgID, "bob"))
	require.NoError(t, err)

	require.Equal(t, "ACM-0001", first.Code)
	require.Equal(t, "ACM-0002", second.Code)
	require.Regexp(t, regexp.MustCompile(`^\d{6}$`), first.Passkey)
	require.NotEqual(t, first.Passkey, second.Passkey)
}

func TestCreateExplicitCodeConflict(t *testing.T) {
	svc, orgID, _ := setupEmployeeService(t)
	ctx := context.Background()

	req := createRequest(orgID, "alice")
	req.Code = "ACM-0042"
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	dup := createRequest(orgID, "bob")
	dup.Code = "ACM-0042"
	_, err = svc.Create(ctx, dup)
	require.ErrorIs(t, err, domain.ErrCodeTaken)
}

func TestCreateValidation(t *testing.T) {
	svc, orgID, _ := setupEmployeeService(t)
	ctx := context.Background()

	req := createRequest(orgID, "alice")
	req.Name = "  "
	_, err := svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidName)

	req = createRequest(orgID, "alice")
	req.Email = "not-an-email"
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	req = createRequest(orgID, "alice")
	req.Salary = 0
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidSalary)
}

func TestGetUnknownCode(t *testing.T) {
	svc, _, _ := setupEmployeeService(t)

	_, err := svc.Get(context.Background(), "ACM-9999")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	svc, orgID, _ := setupEmployeeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest(orgID, "alice"))
	require.NoError(t, err)

	salary := 120000.0
	updated, err := svc.Update(ctx, domain.UpdateRequest{
		Code:   created.Code,
		Salary: &salary,
	})
	require.NoError(t, err)
	require.Equal(t, salary, updated.Salary)
	require.Equal(t, created.Name, updated.Name)
	require.Equal(t, created.Email, updated.Email)
}

func TestDeleteRemovesDirectoryIdentity(t *testing.T) {
	svc, orgID, dir := setupEmployeeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest(orgID, "alice"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.Code))
	require.Contains(t, dir.deleted, created.Email)

	_, err = svc.Get(ctx, created.Code)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
