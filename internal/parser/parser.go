// Package parser reads question-bank markdown files. A bank is a sequence
// of blocks in the form:
//
//	Q: prompt text (may span lines)
//	A: reference answer (may span lines)
//	T: topic
//	---
//
// A block without a prompt is skipped; "---" or the next "Q:" ends a block.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/prepdeck/prepdeck/internal/domain"
)

type field int

const (
	none field = iota
	prompt
	answer
	topic
)

var prefixes = map[string]field{
	"Q:": prompt,
	"A:": answer,
	"T:": topic,
}

// ParseFile reads the bank at path and returns its questions.
func ParseFile(path string) ([]domain.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse extracts all questions from the reader.
func Parse(r io.Reader) ([]domain.Question, error) {
	var (
		questions []domain.Question
		current   domain.Question
		lines     []string
		active    field
	)

	store := func() {
		if len(lines) == 0 {
			return
		}
		text := strings.Join(lines, "\n")
		switch active {
		case prompt:
			current.Prompt = text
		case answer:
			current.Answer = text
		case topic:
			current.Topic = text
		}
		lines = nil
	}

	finish := func() {
		store()
		if current.Prompt != "" {
			questions = append(questions, current)
		}
		current = domain.Question{}
		active = none
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if line == "---" {
			finish()
			continue
		}

		matched := false
		for prefix, f := range prefixes {
			if !strings.HasPrefix(line, prefix) {
				continue
			}
			if f == prompt && active != none {
				// A new prompt always starts a new question.
				finish()
			} else {
				store()
			}
			active = f
			lines = append(lines, strings.TrimPrefix(strings.TrimPrefix(line, prefix), " "))
			matched = true
			break
		}
		if !matched && active != none {
			lines = append(lines, line)
		}
	}
	finish()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}
