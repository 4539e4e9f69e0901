package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reelchat/internal/catalog"
	"reelchat/internal/services/llm"
)

func TestSynthesizeParseFailureYieldsEmptyQuery(t *testing.T) {
	chat := &fakeChat{
		respond: func(int, llm.Request) (string, error) {
			return "Sure! Here are some filters you could use.", nil
		},
	}
	engine := NewEngine(chat, &fakeCatalog{}, testDirectory())
	if query := engine.synthesize(context.Background(), "fun movies", IntentMovie); len(query) != 0 {
		t.Fatalf("query = %v", query)
	}
}

func TestSynthesizeModelFailureYieldsEmptyQuery(t *testing.T) {
	chat := &fakeChat{
		respond: func(int, llm.Request) (string, error) {
			return "", errors.New("upstream 502")
		},
	}
	engine := NewEngine(chat, &fakeCatalog{}, testDirectory())
	if query := engine.synthesize(context.Background(), "fun movies", IntentMovie); len(query) != 0 {
		t.Fatalf("query = %v", query)
	}
}

func TestSynthesizePromptCarriesGenreTaxonomy(t *testing.T) {
	chat := &fakeChat{
		respond: func(_ int, req llm.Request) (string, error) {
			if !strings.Contains(req.System, "878 = science fiction") {
				t.Errorf("system prompt missing movie genre line:\n%s", req.System)
			}
			if !req.JSONOnly {
				t.Error("synthesis request did not ask for JSON output")
			}
			return `{}`, nil
		},
	}
	engine := NewEngine(chat, &fakeCatalog{}, testDirectory())
	engine.synthesize(context.Background(), "space movies", IntentMovie)
}

func TestResolveNameFieldsReplacesCastNames(t *testing.T) {
	cat := &fakeCatalog{
		searchPerson: func(name string) ([]catalog.SearchResult, error) {
			switch name {
			case "Bill Murray":
				return []catalog.SearchResult{{ID: 1532, Name: name}}, nil
			case "Dan Aykroyd":
				return []catalog.SearchResult{{ID: 707, Name: name}}, nil
			}
			return nil, nil
		},
	}
	engine := NewEngine(&fakeChat{}, cat, testDirectory())

	query := StructuredQuery{FieldCastNames: "Bill Murray, Dan Aykroyd"}
	engine.resolveNameFields(context.Background(), query)

	if got := query[FieldWithCast]; got != "1532,707" {
		t.Fatalf("with_cast = %q", got)
	}
	if _, leaked := query[FieldCastNames]; leaked {
		t.Fatal("cast_names survived resolution")
	}
}

func TestResolveNameFieldsMergesKeywordIDs(t *testing.T) {
	cat := &fakeCatalog{
		searchKeyword: func(name string) ([]catalog.SearchResult, error) {
			if name == "time travel" {
				return []catalog.SearchResult{{ID: 4379, Name: name}}, nil
			}
			return nil, errors.New("search unavailable")
		},
	}
	engine := NewEngine(&fakeChat{}, cat, testDirectory())

	query := StructuredQuery{
		FieldWithKeywords: "9648|4379",
		FieldKeywordNames: "time travel, heist",
	}
	engine.resolveNameFields(context.Background(), query)

	if got := query[FieldWithKeywords]; got != "9648|4379" {
		t.Fatalf("with_keywords = %q", got)
	}
	if _, leaked := query[FieldKeywordNames]; leaked {
		t.Fatal("keyword_names survived resolution")
	}
}

func TestResolveNameFieldsDropsUnresolvableNames(t *testing.T) {
	engine := NewEngine(&fakeChat{}, &fakeCatalog{}, testDirectory())

	query := StructuredQuery{FieldCastNames: "Nobody Anyone Knows", FieldKeywordNames: "unseen theme"}
	engine.resolveNameFields(context.Background(), query)

	if len(query) != 0 {
		t.Fatalf("query = %v", query)
	}
}
