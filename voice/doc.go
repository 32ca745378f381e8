// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voice turns spoken transcripts into structured votes.

The expected utterance is

	学号220328 姓名张三 投给一班

# Local Parser

Parse is deterministic, stateless and safe for concurrent use:

	result := voice.Parse(transcript)
	if !result.OK() {
		// result.Error is missing_student_id, missing_name,
		// missing_class or invalid_class
	}

Class designators are one digit 1-7, one numeral 一-七, or a four-digit
cohort code such as 2203 whose last digit is the class.

# Remote Parser

RemoteParser asks a hosted model for a JSON object and validates it:

	parser := voice.NewRemoteParser(provider, voice.RemoteConfig{APIKey: key, Model: "qwen-max"})
	result, err := parser.Parse(ctx, transcript)

A *RemoteError (ErrRemoteUnavailable or ErrInvalidResponseFormat) means the
remote path failed and the caller should fall back to Parse. A nil error
with result.Error set carries whatever fields the model did extract.

# Confirmation

FormatConfirmation renders the read-back sentence that successful results
carry in their Confirmation field.
*/
package voice
