// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package web holds the embedded HTML pages: the home page, the vote form
// with speech input, the live results page and the API test page.
package web
