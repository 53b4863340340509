// Package common contains shared constants and sentinel errors used across
// budgetkeeper components.
package common

// DateLayout is the calendar-date format used for transaction and purchase
// dates. Dates in this layout compare correctly as plain strings.
const DateLayout = "2006-01-02"

// BackupVersion is the document version written by exports.
const BackupVersion = "1.0"

// CurrentUserKey is the metadata slot holding the logged-in user id.
const CurrentUserKey = "current_user_id"
