package repository

import (
	"testing"
)

func TestBuildKeywordConditionSQLite(t *testing.T) {
	condition, argCount := buildKeywordCondition(nil, []string{"name", " ", "description"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	want := "name LIKE ? OR description LIKE ?"
	if condition != want {
		t.Fatalf("condition mismatch, want %s got %s", want, condition)
	}
}

func TestBuildKeywordConditionPostgres(t *testing.T) {
	condition, argCount := buildKeywordConditionByDialect("postgres", []string{"code"})
	if argCount != 1 || condition != "code ILIKE ?" {
		t.Fatalf("unexpected postgres condition %q (%d)", condition, argCount)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}
