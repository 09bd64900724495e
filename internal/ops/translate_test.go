package ops

import (
	"testing"

	"github.com/ccresp/respd/internal/resp"
)

func cmd(parts ...string) resp.Value {
	vals := make([]resp.Value, len(parts))
	for i, p := range parts {
		vals[i] = resp.BulkStringValue([]byte(p))
	}
	return resp.ArrayValue(vals)
}

func TestTranslatePing(t *testing.T) {
	op, err := Translate(cmd("PING"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != KindPing {
		t.Fatalf("Kind = %v, want KindPing", op.Kind)
	}
}

func TestTranslateCaseInsensitiveCommandName(t *testing.T) {
	op, err := Translate(cmd("get", "foo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != KindGet || op.Key != "foo" {
		t.Fatalf("got %+v", op)
	}
}

func TestTranslateUnknownOp(t *testing.T) {
	_, err := Translate(cmd("NOSUCHCOMMAND", "x"))
	oe, ok := err.(*OpsError)
	if !ok || oe.Kind != UnknownOp {
		t.Fatalf("err = %v, want UnknownOp", err)
	}
}

func TestTranslateWrongNumberOfArgs(t *testing.T) {
	_, err := Translate(cmd("GET"))
	oe, ok := err.(*OpsError)
	if !ok || oe.Kind != WrongNumberOfArgs {
		t.Fatalf("err = %v, want WrongNumberOfArgs", err)
	}
}

func TestTranslateMSetRequiresEvenArgs(t *testing.T) {
	_, err := Translate(cmd("MSET", "k1", "v1", "k2"))
	oe, ok := err.(*OpsError)
	if !ok || oe.Kind != InvalidArgPattern {
		t.Fatalf("err = %v, want InvalidArgPattern", err)
	}
}

func TestTranslateSAddVariadic(t *testing.T) {
	op, err := Translate(cmd("SADD", "s", "a", "b", "c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != KindSAdd || op.Key != "s" || len(op.Members) != 3 {
		t.Fatalf("got %+v", op)
	}
}

func TestTranslateZAddScoreMemberPairs(t *testing.T) {
	op, err := Translate(cmd("ZADD", "z", "1", "a", "2", "b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(op.ScoreMembers) != 2 || op.ScoreMembers[0].Score != 1 || op.ScoreMembers[0].Member != "a" {
		t.Fatalf("got %+v", op.ScoreMembers)
	}
}

func TestTranslateBLPopKeysAndTimeout(t *testing.T) {
	op, err := Translate(cmd("BLPOP", "a", "b", "1.5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != KindBLPop || len(op.Keys) != 2 || op.Keys[0] != "a" || op.Keys[1] != "b" {
		t.Fatalf("got %+v", op)
	}
	if op.TimeoutMS != 1500 {
		t.Fatalf("TimeoutMS = %d, want 1500", op.TimeoutMS)
	}
}

func TestTranslateBRPopRequiresKeyAndTimeout(t *testing.T) {
	_, err := Translate(cmd("BRPOP", "onlykey"))
	oe, ok := err.(*OpsError)
	if !ok || oe.Kind != WrongNumberOfArgs {
		t.Fatalf("err = %v, want WrongNumberOfArgs", err)
	}
}

func TestTranslateInvalidTypeOnNonBulkStringArg(t *testing.T) {
	v := resp.ArrayValue([]resp.Value{
		resp.BulkStringValue([]byte("GET")),
		resp.IntegerValue(5),
	})
	_, err := Translate(v)
	oe, ok := err.(*OpsError)
	if !ok || oe.Kind != InvalidType {
		t.Fatalf("err = %v, want InvalidType", err)
	}
}

func TestTranslateNotArrayIsInvalidStart(t *testing.T) {
	_, err := Translate(resp.BulkStringValue([]byte("PING")))
	oe, ok := err.(*OpsError)
	if !ok || oe.Kind != InvalidStart {
		t.Fatalf("err = %v, want InvalidStart", err)
	}
}
