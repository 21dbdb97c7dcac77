package config

import (
	"time"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port int `envconfig:"port" default:"8080"`

	// DirectoryBaseURL points at the directory's REST API root.
	DirectoryBaseURL      string `envconfig:"directory_base_url" required:"true"`
	DirectoryTokenURL     string `envconfig:"directory_token_url" required:"true"`
	DirectoryTenantID     string `envconfig:"directory_tenant_id" required:"true"`
	DirectoryClientID     string `envconfig:"directory_client_id" required:"true"`
	DirectoryClientSecret string `envconfig:"directory_client_secret" required:"true"`

	// DSN is optional; without it run reports are not persisted.
	DSN string `envconfig:"DSN"`

	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	DryRun bool `envconfig:"dry_run" default:"false"`

	// Schedule is a cron expression used by serve mode; empty disables
	// scheduled runs.
	Schedule string `envconfig:"schedule" default:""`

	MemberInactiveDays         int    `envconfig:"member_inactive_days" default:"90"`
	MemberOffboardInactiveDays int    `envconfig:"member_offboard_inactive_days" default:"180"`
	GuestInactiveDays          int    `envconfig:"guest_inactive_days" default:"90"`
	GuestReviewInactiveDays    int    `envconfig:"guest_review_inactive_days" default:"60"`
	ReviewGroup                string `envconfig:"review_group" default:"inactive-guest-review"`

	ExclusionGroup      string   `envconfig:"exclusion_group" default:""`
	ExcludedDomains     []string `envconfig:"excluded_domains" default:""`
	ExcludedDepartments []string `envconfig:"excluded_departments" default:""`
	LicenseIncludeList  []string `envconfig:"license_include_list" default:""`

	// LicenseCatalogFailure selects degrade or fatal handling when the SKU
	// catalog cannot be fetched.
	LicenseCatalogFailure string `envconfig:"license_catalog_failure" default:"degrade"`
}

func (e *EnvSpec) ReportingEnabled() bool {
	return e.DSN != ""
}

func (e *EnvSpec) LicenseCatalogFatal() bool {
	return e.LicenseCatalogFailure == "fatal"
}
