// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

type LoggerInterface interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})
	Security() SecurityLoggerInterface
	Sync() error
}

// SecurityLoggerInterface records audit-relevant events. Every directory
// mutation performed by a run goes through here on top of regular logs.
type SecurityLoggerInterface interface {
	SystemStartup()
	SystemShutdown()
	AccountDisabled(accountID, stage string)
	AccountRemoved(accountID, stage string)
	GroupMembershipRewritten(groupID string, removed, added int)
}
