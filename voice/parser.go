// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voice

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/danielhkuo/classvote/models"
)

// Spoken template: 学号<id> 姓名<name> 投给<class>班
var (
	studentIDPattern = regexp.MustCompile(`学号(\d+)`)
	namePattern      = regexp.MustCompile(`姓名([^\s\p{Z}]+)`)
	classPattern     = regexp.MustCompile(`投给([零〇一二三四五六七八九十]|\d{4}|\d)班`)
)

// A name run stops at the next marker or clause punctuation, since speech
// recognisers often drop the spaces between fields.
var nameTerminators = []string{"投给", "学号", "，", ",", "。", "、", "；", ";"}

// SampleTranscripts are well-formed utterances, used in place of speech
// when a browser cannot record.
var SampleTranscripts = []string{
	"学号220328 姓名张三 投给2201班",
	"学号220329 姓名李四 投给2202班",
	"学号220330 姓名王五 投给2203班",
	"学号220331 姓名赵六 投给2204班",
	"学号220332 姓名钱七 投给2205班",
}

var classDesignators = map[string]models.ClassNumber{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5, "六": 6, "七": 7,
	"1": 1, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7,
}

var messages = map[string]string{
	models.ErrCodeMissingStudentID:      "未能识别学号，请重试",
	models.ErrCodeMissingName:           "未能识别姓名，请重试",
	models.ErrCodeMissingClass:          "未能识别班级，请重试",
	models.ErrCodeInvalidClass:          "班级编号无效，请重试",
	models.ErrCodeRemoteUnavailable:     "语音解析服务暂时不可用，请使用文字输入",
	models.ErrCodeInvalidResponseFormat: "处理语音识别结果时出错，请重试或使用文字输入",
}

// Message returns the user-facing prompt for an error code.
func Message(code string) string {
	return messages[code]
}

// ClassNumberFromDesignator maps a spoken class designator to a class id.
// Accepted: 一..七, "1".."7", and four-digit codes such as 2203 whose final
// digit is 1..7.
func ClassNumberFromDesignator(s string) (models.ClassNumber, bool) {
	if n, ok := classDesignators[s]; ok {
		return n, true
	}
	if len(s) == 4 && isASCIIDigits(s) {
		if n, ok := classDesignators[s[3:]]; ok {
			return n, true
		}
	}
	return 0, false
}

// Parse extracts a vote from a transcript. It never fails outright: a
// transcript without a complete vote yields a result with Error set and
// only the fields that were actually recognised.
func Parse(transcript string) models.ParsedVoiceResult {
	result := models.ParsedVoiceResult{Source: models.SourceLocal}

	if m := studentIDPattern.FindStringSubmatch(transcript); m != nil {
		result.StudentID = m[1]
	}
	if m := namePattern.FindStringSubmatch(transcript); m != nil {
		result.StudentName = trimName(m[1])
	}

	var designator string
	if m := classPattern.FindStringSubmatch(transcript); m != nil {
		designator = m[1]
	}

	switch {
	case result.StudentID == "":
		return fail(result, models.ErrCodeMissingStudentID)
	case result.StudentName == "":
		return fail(result, models.ErrCodeMissingName)
	case designator == "":
		return fail(result, models.ErrCodeMissingClass)
	}

	classID, ok := ClassNumberFromDesignator(designator)
	if !ok {
		return fail(result, models.ErrCodeInvalidClass)
	}
	result.ClassID = classID

	return confirm(result)
}

func trimName(run string) string {
	// Full-width and no-break spaces end a name like ASCII ones
	if i := strings.IndexFunc(run, unicode.IsSpace); i >= 0 {
		run = run[:i]
	}
	for _, t := range nameTerminators {
		if i := strings.Index(run, t); i >= 0 {
			run = run[:i]
		}
	}
	return run
}

func fail(result models.ParsedVoiceResult, code string) models.ParsedVoiceResult {
	result.Error = code
	result.Message = Message(code)
	result.Confirmation = ""
	return result
}

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
