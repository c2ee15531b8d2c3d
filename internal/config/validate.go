package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg plus everything a
// careful operator should know before the engine starts serving requests.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.App.BaseURL = strings.TrimRight(strings.TrimSpace(out.App.BaseURL), "/")
	out.Mail.Endpoint = strings.TrimSpace(out.Mail.Endpoint)
	out.Mail.FromAddress = strings.TrimSpace(out.Mail.FromAddress)
	out.Mail.AdminEmail = strings.TrimSpace(out.Mail.AdminEmail)

	// ---- Defaults ----

	if out.App.Port == 0 {
		out.App.Port = 38520
	}
	if out.Intake.PublicRatePerMin <= 0 {
		out.Intake.PublicRatePerMin = 30
	}
	if out.Intake.Burst <= 0 {
		out.Intake.Burst = 10
	}
	if out.Intake.MaxUploadMB <= 0 {
		out.Intake.MaxUploadMB = 10
	}
	if out.Worker.RetrySeconds <= 0 {
		out.Worker.RetrySeconds = 60
	}
	if out.Worker.Batch <= 0 {
		out.Worker.Batch = 20
	}
	if out.Mail.RequestTimeoutSeconds <= 0 {
		out.Mail.RequestTimeoutSeconds = 10
	}

	// ---- Validation rules ----

	if out.App.Port < 0 || out.App.Port > 65535 {
		res.addErr("app.port %d is out of range", out.App.Port)
	}
	if strings.TrimSpace(out.App.AdminToken) == "" {
		res.addWarn("app.admin_token is empty; admin endpoints will reject every request")
	}
	if out.App.BaseURL == "" {
		res.addWarn("app.base_url is empty; links in outgoing email will be relative")
	}

	// mail required fields if enabled (API key is not here; it lives in the keychain)
	if out.Mail.Enabled {
		if out.Mail.Endpoint == "" {
			res.addErr("mail.endpoint is required when mail.enabled=true")
		}
		if out.Mail.FromAddress == "" {
			res.addErr("mail.from_address is required when mail.enabled=true")
		}
		if strings.TrimSpace(out.Mail.KeyringAccount) == "" {
			res.addWarn("mail.keyring_account is empty; outgoing requests will be unauthenticated")
		}
		if out.Mail.AdminEmail == "" {
			res.addWarn("mail.admin_email is empty; new-lead alerts will not be sent")
		}
	}

	if out.Worker.RetrySeconds < 10 {
		res.addWarn("worker.retry_seconds is very low (%d) and may hammer the mail API.", out.Worker.RetrySeconds)
	}

	return out, res
}
