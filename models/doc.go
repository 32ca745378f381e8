// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SubmitVoteRequest: studentId, studentName, classId, optional timestamp
  - ClearVotesRequest: password
  - ParseVoiceRequest: text
  - CompleteRequest: prompt

# Response Types

Types for JSON responses:

  - VoteResponse: message, vote
  - MessageResponse: message
  - VoiceStatusResponse: status, apiConfigured, provider, model
  - CompleteResponse: text
  - ErrorResponse: error, message

# Domain Types

  - Vote: one ballot per student
  - ParsedVoiceResult: transcript parsed into vote fields, or an error code
  - ClassInfo: a configured class
  - ClassTally: vote count for one class

# Class Numbers

ClassNumber decodes from JSON numbers and numeric strings and scans from
SQL integer or text columns, so records written with either encoding are
compared numerically:

	var v models.Vote
	json.Unmarshal([]byte(`{"classId":"2"}`), &v) // v.ClassID == 2

Valid class ids are MinClassID through MaxClassID (1-7).

# Error Codes

Voice parse results use:

	missing_student_id, missing_name, missing_class, invalid_class,
	remote_unavailable, invalid_response_format

Vote submission uses missing_fields, duplicate_vote and unauthorized.
*/
package models
