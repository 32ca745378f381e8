// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voice

import (
	"fmt"
	"strconv"

	"github.com/danielhkuo/classvote/models"
)

// Cohort codes read back to the voter, indexed by class id - 1.
var spokenClassNames = []string{"2201", "2202", "2203", "2204", "2205", "2206", "2207"}

// FormatConfirmation builds the sentence read back to a voter before they
// submit. It is informational; submission does not depend on it.
func FormatConfirmation(studentID, studentName string, classID models.ClassNumber) string {
	className := strconv.Itoa(int(classID))
	if classID.Valid() {
		className = spokenClassNames[classID-1]
	}
	return fmt.Sprintf("您的投票信息：学号%s，姓名%s，投给%s班。请确认。", studentID, studentName, className)
}

// confirm attaches the confirmation sentence to a complete result.
func confirm(result models.ParsedVoiceResult) models.ParsedVoiceResult {
	if result.OK() {
		result.Confirmation = FormatConfirmation(result.StudentID, result.StudentName, result.ClassID)
	}
	return result
}
