package cli

import (
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/spf13/pflag"
)

// planTypeValue is a pflag.Value that only accepts known plan types.
type planTypeValue domain.PlanType

var _ pflag.Value = (*planTypeValue)(nil)

func (v *planTypeValue) String() string { return string(*v) }
func (v *planTypeValue) Type() string   { return "planType" }

func (v *planTypeValue) Set(s string) error {
	t, err := domain.ParsePlanType(s)
	if err != nil {
		return err
	}
	*v = planTypeValue(t)
	return nil
}

func (v *planTypeValue) PlanType() domain.PlanType { return domain.PlanType(*v) }

// planTypeFlag registers --type on fs with the given default.
func planTypeFlag(fs *pflag.FlagSet, def domain.PlanType) *planTypeValue {
	v := planTypeValue(def)
	fs.VarP(&v, "type", "t", "Plan type (parametric or executive)")
	return &v
}
