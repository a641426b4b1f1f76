package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PayrollPolicy holds the payroll knobs that ops tune without a redeploy:
// statutory employer/employee contribution rates applied on top of the PAYE
// slab deduction.
type PayrollPolicy struct {
	EmployeeEPFRate float64 `mapstructure:"employeeEpfRate"`
	EmployerEPFRate float64 `mapstructure:"employerEpfRate"`
	EmployerETFRate float64 `mapstructure:"employerEtfRate"`
}

func DefaultPayrollPolicy() PayrollPolicy {
	return PayrollPolicy{
		EmployeeEPFRate: 0.08,
		EmployerEPFRate: 0.12,
		EmployerETFRate: 0.03,
	}
}

// PayrollPolicyHolder serves the current policy snapshot and hot-reloads it
// when payroll.yml changes on disk.
type PayrollPolicyHolder struct {
	current atomic.Value // holds PayrollPolicy
}

func NewPayrollPolicyHolder() (*PayrollPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("payroll")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/mensa/config")
	v.AddConfigPath("/etc/mensa")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MENSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPayrollPolicy()
		v.SetDefault("payroll.employeeEpfRate", defaults.EmployeeEPFRate)
		v.SetDefault("payroll.employerEpfRate", defaults.EmployerEPFRate)
		v.SetDefault("payroll.employerEtfRate", defaults.EmployerETFRate)
	}

	holder := &PayrollPolicyHolder{}
	if err := holder.reload(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		if err := holder.reload(v); err != nil {
			log.Printf("payroll policy reload failed: %v", err)
		}
	})
	v.WatchConfig()

	return holder, nil
}

func (h *PayrollPolicyHolder) reload(v *viper.Viper) error {
	var policy PayrollPolicy
	if err := v.UnmarshalKey("payroll", &policy); err != nil {
		return err
	}
	if policy == (PayrollPolicy{}) {
		policy = DefaultPayrollPolicy()
	}
	h.current.Store(policy)
	return nil
}

// Current returns the latest policy snapshot.
func (h *PayrollPolicyHolder) Current() PayrollPolicy {
	if v, ok := h.current.Load().(PayrollPolicy); ok {
		return v
	}
	return DefaultPayrollPolicy()
}
