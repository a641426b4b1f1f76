package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opencanteen/mensa/internal/bulkimport/domain"
	"github.com/opencanteen/mensa/internal/directory"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const birthDateLayout = "2006-01-02"

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z .'-]*$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)

	validRoles = map[string]struct{}{
		"admin":   {},
		"hr":      {},
		"kitchen": {},
		"staff":   {},
		"driver":  {},
	}
)

// requiredColumns must all be present in the header or the whole batch is
// rejected.
var requiredColumns = []string{"name", "role", "email", "phone", "birth_date", "salary"}

type Params struct {
	fx.In

	Log         *zap.Logger
	EmployeeSvc employeedomain.Service
	Directory   directory.Client
}

type Service struct {
	log         *zap.Logger
	employeeSvc employeedomain.Service
	directory   directory.Client
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("bulkimport.service"),
		employeeSvc: p.EmployeeSvc,
		directory:   p.Directory,
	}
}

func (s *Service) Import(ctx context.Context, organizationID string, csvFile io.Reader) (*domain.Result, error) {
	reader := csv.NewReader(csvFile)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, domain.ErrEmptyFile
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	result := &domain.Result{BatchID: batchID}
	log := s.log.With(zap.String("batch_id", batchID))

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, domain.RowError{
				Line:    line,
				Message: "malformed csv row",
			})
			continue
		}

		row, rowErr := parseRow(columns, record, line)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		code, err := s.importRow(ctx, organizationID, batchID, row)
		if err != nil {
			log.Warn("import row failed", zap.Int("line", line), zap.Error(err))
			result.Errors = append(result.Errors, domain.RowError{
				Line:    line,
				Message: err.Error(),
			})
			continue
		}
		result.Imported = append(result.Imported, code)
	}

	log.Info("import batch finished",
		zap.Int("imported", len(result.Imported)),
		zap.Int("rejected", len(result.Errors)),
	)
	return result, nil
}

// importRow creates the employee, then mirrors the identity to the directory
// provider. A provider failure triggers a compensating delete so no employee
// row is left without a matching identity.
func (s *Service) importRow(ctx context.Context, organizationID, batchID string, row parsedRow) (string, error) {
	employee, err := s.employeeSvc.Create(ctx, employeedomain.CreateRequest{
		OrganizationID: organizationID,
		Name:           row.name,
		Role:           row.role,
		Email:          row.email,
		Phone:          &row.phone,
		Address:        row.address,
		BirthDate:      &row.birthDate,
		Salary:         row.salary,
	})
	if err != nil {
		return "", err
	}

	err = s.directory.Register(ctx, directory.Identity{
		EmployeeCode:   employee.Code,
		Email:          employee.Email,
		Name:           employee.Name,
		Role:           employee.Role,
		IdempotencyKey: batchID,
	})
	if err != nil {
		if delErr := s.employeeSvc.Delete(ctx, employee.Code); delErr != nil {
			s.log.Error("compensating delete failed",
				zap.String("code", employee.Code),
				zap.Error(delErr),
			)
		}
		return "", err
	}
	return employee.Code, nil
}

type parsedRow struct {
	name      string
	role      string
	email     string
	phone     string
	address   *string
	birthDate time.Time
	salary    float64
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, domain.ErrMissingColumns
		}
	}
	return columns, nil
}

func parseRow(columns map[string]int, record []string, line int) (parsedRow, *domain.RowError) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	fail := func(name, message string) (parsedRow, *domain.RowError) {
		return parsedRow{}, &domain.RowError{Line: line, Field: name, Message: message}
	}

	row := parsedRow{
		name:  field("name"),
		role:  strings.ToLower(field("role")),
		email: field("email"),
		phone: field("phone"),
	}
	if !namePattern.MatchString(row.name) {
		return fail("name", "name must start with a letter and use letters, spaces, dots, hyphens")
	}
	if _, ok := validRoles[row.role]; !ok {
		return fail("role", "unknown role")
	}
	if !emailPattern.MatchString(row.email) {
		return fail("email", "invalid email address")
	}
	if !phonePattern.MatchString(row.phone) {
		return fail("phone", "phone must be exactly 10 digits")
	}

	birthDate, err := time.ParseInLocation(birthDateLayout, field("birth_date"), time.UTC)
	if err != nil {
		return fail("birth_date", fmt.Sprintf("birth date must be %s", birthDateLayout))
	}
	row.birthDate = birthDate

	salary, err := strconv.ParseFloat(field("salary"), 64)
	if err != nil || salary <= 0 {
		return fail("salary", "salary must be a positive number")
	}
	row.salary = salary

	if address := field("address"); address != "" {
		row.address = &address
	}
	return row, nil
}
