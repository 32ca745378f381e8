// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the class vote server.

# Handler Types

Each handler is a struct holding its dependencies:

  - VotingHandler: vote submission and clearing
  - ResultsHandler: per-class tallies
  - VoiceHandler: transcript parsing, model status and raw completions
  - PageHandler: the HTML pages

Handlers are created via constructor functions:

	votingHandler := handlers.NewVotingHandler(votes, cfg)
	resultsHandler := handlers.NewResultsHandler(votes, tally.DefaultClasses())
	voiceHandler := handlers.NewVoiceHandler(remoteParser)

# Submitting a Vote

	POST /api/vote {"studentId":"220328","studentName":"张三","classId":1}

	201 {"message":"投票成功","vote":{...}}
	409 {"message":"您已经投过票了","vote":{...the earlier vote...}}
	400 {"error":"missing_fields"} or {"error":"invalid_class"}

classId may arrive as a number or a numeric string. There is no existence
check before the insert; the store rejects the second vote atomically, so
two simultaneous submissions for one student yield exactly one 201.

# Clearing Votes

	POST /api/clear-votes {"password":"..."}

The password is compared in constant time against CLEAR_PASSWORD; a wrong
password is 401 and leaves the votes untouched.

# Voice Parsing

	POST /api/voice/parse {"text":"学号220328 姓名张三 投给一班"}

The remote model is tried first when an API key is configured. If it is
unreachable, times out, or answers with something that is not the
expected JSON, the local pattern parser handles the transcript instead;
the caller always gets 200 with a ParsedVoiceResult whose source field
says which parser answered. ?mode=local skips the model.

A result with an error code (missing_student_id, missing_name,
missing_class, invalid_class) is still a 200: the transcript was
understood, it just did not contain a complete vote.

# Logging

Handlers log through middleware.Logger so lines carry the request id.
Client addresses are only logged as salted hashes (auth.HashIP).
*/
package handlers
