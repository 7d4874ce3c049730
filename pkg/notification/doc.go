// Package notification delivers outbound messages to team members. The
// EmailNotifier sends over SMTP; MockNotifier records messages for tests.
package notification
