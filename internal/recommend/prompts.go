package recommend

import (
	"fmt"
	"strings"

	"reelchat/internal/catalog"
)

const intentClassificationPrompt = `You classify a single chat message from a user of a movie and TV recommendation assistant.

Reply with exactly one word:
movie - the user is asking for movie recommendations or movies to watch
tv    - the user is asking for TV show or series recommendations
other - anything else, including follow-up questions, greetings, and general chat

Reply with the single word only. No punctuation, no explanation.`

const querySynthesisPromptTemplate = `You convert a user's %[1]s request into discovery filter parameters, returned as a single flat JSON object of string values.

Allowed keys:
- "with_genres": genre ids from the list below, pipe-separated for OR, comma-separated for AND
- "with_keywords": keyword ids, pipe-separated (only if you already know an id; otherwise use "keyword_names")
- "keyword_names": plot or theme keywords as plain words, comma-separated (e.g. "time travel, heist")
- "cast_names": actor names mentioned by the user, comma-separated
- "sort_by": one of "popularity.desc", "vote_average.desc", "primary_release_date.desc", "revenue.desc"
- "with_original_language": ISO 639-1 code of the original language, if the user asked for it
- %[2]s
- "vote_average_gte", "vote_average_lte": rating bounds, 0-10
- "vote_count_gte": minimum vote count (use "200" when filtering by rating)
- "with_runtime_gte", "with_runtime_lte": runtime bounds in minutes

Genre ids:
%[3]s

Rules:
- Output only the JSON object. No prose, no code fences.
- Omit keys the user's request says nothing about.
- Never invent numeric ids for people or keywords; use "cast_names" and "keyword_names" instead.
- All values must be strings.`

const movieDateFieldsHelp = `"primary_release_date_gte", "primary_release_date_lte": release date bounds as YYYY-MM-DD (e.g. the 80s is 1980-01-01 to 1989-12-31)`

const tvDateFieldsHelp = `"first_air_date_gte", "first_air_date_lte": first air date bounds as YYYY-MM-DD (e.g. the 80s is 1980-01-01 to 1989-12-31)`

const resultSummaryPrompt = `You are a movie and TV recommendation assistant. The user made a request and the catalog returned matching titles, listed below with their release year, rating, and overview.

Write a short conversational reply recommending two or three of the listed titles. Ground every claim in the listed data; do not mention titles that are not in the list and do not invent plot details. Do not mention the list itself or how it was produced.`

const generalAssistantPrompt = `You are a friendly movie and TV recommendation assistant. Answer the user's message conversationally. If they seem interested in finding something to watch, invite them to describe what kind of movie or show they are in the mood for. Keep replies short.`

func synthesisPrompt(kind catalog.MediaKind, genreLines string) string {
	subject := "movie"
	dateHelp := movieDateFieldsHelp
	if kind == catalog.MediaKindTV {
		subject = "TV show"
		dateHelp = tvDateFieldsHelp
	}
	if genreLines == "" {
		genreLines = "(genre list unavailable; omit with_genres)"
	}
	return fmt.Sprintf(querySynthesisPromptTemplate, subject, dateHelp, genreLines)
}

func (e *Engine) genrePromptLines(kind catalog.MediaKind) string {
	names := e.genres.Names(kind)
	if len(names) == 0 {
		return ""
	}
	lines := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := e.genres.Lookup(kind, name)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d = %s", id, name))
	}
	return strings.Join(lines, "\n")
}
