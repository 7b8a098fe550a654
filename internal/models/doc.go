// Package models defines the values interactive prompts operate on.
//
// A [Candidate] pairs the value a prompt returns with the label it displays, so callers can show
// "OpenAI GPT-4o" while receiving "gpt-4o". Helpers build candidate lists from plain strings
// ([Strings]) or from delimited "value<sep>label" lines read from files or pipes ([Pairs]).
package models
