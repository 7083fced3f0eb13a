package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	EventLogName      = "events.log"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Configuration struct {
	configFs afero.Fs

	Prompt          string `json:"prompt" validate:"required"`
	NullDevice      string `json:"null_device" validate:"required"`
	QuoteAware      bool   `json:"quote_aware"`
	Color           string `json:"color" validate:"oneof=auto always never"`
	TerminateSignal string `json:"terminate_signal" validate:"required,signal"`
	EventLog        bool   `json:"event_log"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})
	if err := validate.RegisterValidation("signal", func(fl validator.FieldLevel) bool {
		return unix.SignalNum(fl.Field().String()) != 0
	}); err != nil {
		return err
	}

	return validate.Struct(c)
}

// Signal returns the signal sent to background jobs on exit.
func (c *Configuration) Signal() syscall.Signal {
	if sig := unix.SignalNum(c.TerminateSignal); sig != 0 {
		return sig
	}
	return syscall.SIGTERM
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(EventLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(EventLogName, os.O_RDONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
