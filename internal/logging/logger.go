// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.SugaredLogger

	security *SecurityLogger
}

var _ LoggerInterface = (*Logger)(nil)

func (l *Logger) Security() SecurityLoggerInterface {
	return l.security
}

// NewLogger creates a production zap logger at the given level. An
// unparseable level falls back to error to keep startup resilient.
func NewLogger(level string) *Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.ErrorLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	return &Logger{
		SugaredLogger: logger.Sugar(),
		security:      &SecurityLogger{l: logger.Named("security")},
	}
}

// SecurityLogger emits structured audit events on the dedicated security
// logger so they can be shipped independently of application logs.
type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("system startup", zap.String("event", "system_startup"))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("system shutdown", zap.String("event", "system_shutdown"))
}

func (s *SecurityLogger) AccountDisabled(accountID, stage string) {
	s.l.Info("account disabled",
		zap.String("event", "account_disabled"),
		zap.String("account_id", accountID),
		zap.String("stage", stage),
	)
}

func (s *SecurityLogger) AccountRemoved(accountID, stage string) {
	s.l.Info("account removed",
		zap.String("event", "account_removed"),
		zap.String("account_id", accountID),
		zap.String("stage", stage),
	)
}

func (s *SecurityLogger) GroupMembershipRewritten(groupID string, removed, added int) {
	s.l.Info("group membership rewritten",
		zap.String("event", "group_membership_rewritten"),
		zap.String("group_id", groupID),
		zap.Int("removed", removed),
		zap.Int("added", added),
	)
}
