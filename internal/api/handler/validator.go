package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

// RegisterValidators 注册自定义校验规则，字段名使用 json/form 标签
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 校验引擎不是 validator/v10")
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	rules := map[string][]string{
		"machine_status": {
			model.MachineStatusActive, model.MachineStatusStandby,
			model.MachineStatusMaintenance, model.MachineStatusOffline,
		},
		"session_status": {
			model.SessionStatusInProgress, model.SessionStatusCompleted,
			model.SessionStatusApproved, model.SessionStatusRejected,
		},
		"maintenance_status": {
			model.MaintenanceStatusPending, model.MaintenanceStatusProgress, model.MaintenanceStatusResolved,
		},
	}
	for tag, allowed := range rules {
		if err := v.RegisterValidation(tag, oneOf(allowed)); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(allowed []string) validator.Func {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	}
}
