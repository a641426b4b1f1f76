package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/opencanteen/mensa/internal/bulkimport/domain"
	"github.com/opencanteen/mensa/internal/directory"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	employeerepository "github.com/opencanteen/mensa/internal/employee/repository"
	employeeservice "github.com/opencanteen/mensa/internal/employee/service"
	orgdomain "github.com/opencanteen/mensa/internal/organization/domain"
	orgrepository "github.com/opencanteen/mensa/internal/organization/repository"
	orgservice "github.com/opencanteen/mensa/internal/organization/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingDirectory struct {
	mu          sync.Mutex
	registered  []directory.Identity
	deleted     []string
	registerErr error
	failEmail   string
}

func (d *recordingDirectory) Register(_ context.Context, identity directory.Identity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.registerErr != nil && (d.failEmail == "" || d.failEmail == identity.Email) {
		return d.registerErr
	}
	d.registered = append(d.registered, identity)
	return nil
}

func (d *recordingDirectory) Delete(_ context.Context, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleted = append(d.deleted, email)
	return nil
}

type importFixture struct {
	svc         domain.Service
	employeeSvc employeedomain.Service
	dir         *recordingDirectory
	orgID       string
}

func setupImportService(t *testing.T) importFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&orgdomain.Organization{}, &employeedomain.Employee{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	orgSvc := orgservice.New(orgservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  orgrepository.Provide(),
	})
	org, err := orgSvc.Create(context.Background(), orgdomain.CreateRequest{Name: "Main Canteen"})
	require.NoError(t, err)

	dir := &recordingDirectory{}
	employeeSvc := employeeservice.New(employeeservice.Params{
		DB:        db,
		Log:       zap.NewNop(),
		Repo:      employeerepository.Provide(),
		OrgSvc:    orgSvc,
		Directory: dir,
	})
	svc := New(Params{
		Log:         zap.NewNop(),
		EmployeeSvc: employeeSvc,
		Directory:   dir,
	})
	return importFixture{svc: svc, employeeSvc: employeeSvc, dir: dir, orgID: org.ID}
}

const importHeader = "name,role,email,phone,birth_date,salary\n"

func TestImportCreatesEmployeesAndIdentities(t *testing.T) {
	f := setupImportService(t)

	csv := importHeader +
		"Alice Perera,staff,alice@example.com,0771234567,1990-04-12,95000\n" +
		"Bob Silva,kitchen,bob@example.com,0719876543,1985-11-02,88000\n"
	result, err := f.svc.Import(context.Background(), f.orgID, strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, result.Imported, 2)
	require.Empty(t, result.Errors)
	require.NotEmpty(t, result.BatchID)
	require.Len(t, f.dir.registered, 2)
	require.Equal(t, result.BatchID, f.dir.registered[0].IdempotencyKey)

	for _, code := range result.Imported {
		_, err := f.employeeSvc.Get(context.Background(), code)
		require.NoError(t, err)
	}
}

func TestImportCollectsRowErrors(t *testing.T) {
	f := setupImportService(t)

	csv := importHeader +
		"Alice Perera,staff,alice@example.com,0771234567,1990-04-12,95000\n" +
		"9bad name,staff,bad@example.com,0771111111,1990-01-01,50000\n" +
		"Carol Dias,astronaut,carol@example.com,0772222222,1990-01-01,50000\n" +
		"Dan Fonseka,staff,not-an-email,0773333333,1990-01-01,50000\n" +
		"Eve Gomes,staff,eve@example.com,12345,1990-01-01,50000\n" +
		"Frank Hetti,staff,frank@example.com,0775555555,1990-01-01,-10\n"
	result, err := f.svc.Import(context.Background(), f.orgID, strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, result.Imported, 1)
	require.Len(t, result.Errors, 5)

	fields := make([]string, 0, len(result.Errors))
	for _, rowErr := range result.Errors {
		fields = append(fields, rowErr.Field)
	}
	require.Equal(t, []string{"name", "role", "email", "phone", "salary"}, fields)
}

func TestImportRejectsMissingColumns(t *testing.T) {
	f := setupImportService(t)

	_, err := f.svc.Import(context.Background(), f.orgID, strings.NewReader("name,email\nAlice,alice@example.com\n"))
	require.ErrorIs(t, err, domain.ErrMissingColumns)

	_, err = f.svc.Import(context.Background(), f.orgID, strings.NewReader(""))
	require.ErrorIs(t, err, domain.ErrEmptyFile)
}

func TestImportCompensatesProviderFailure(t *testing.T) {
	f := setupImportService(t)
	f.dir.registerErr = errors.New("provider down")
	f.dir.failEmail = "bob@example.com"

	csv := importHeader +
		"Alice Perera,staff,alice@example.com,0771234567,1990-04-12,95000\n" +
		"Bob Silva,kitchen,bob@example.com,0719876543,1985-11-02,88000\n"
	result, err := f.svc.Import(context.Background(), f.orgID, strings.NewReader(csv))
	require.NoError(t, err)

	// Bob's employee row must not survive the failed identity registration.
	require.Len(t, result.Imported, 1)
	require.Len(t, result.Errors, 1)
	require.Equal(t, 3, result.Errors[0].Line)
	require.Contains(t, f.dir.deleted, "bob@example.com")

	employees, err := f.employeeSvc.List(context.Background(), employeedomain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, employees, 1)
	require.Equal(t, "alice@example.com", employees[0].Email)
}
