package flow

import "testing"

func TestSequence(t *testing.T) {
	s := NewSequence()
	if s.Add(Next) {
		t.Fatal("first statement is reachable")
	}
	if s.Add(Return) {
		t.Fatal("return statement is reachable")
	}
	if !s.Add(Next) {
		t.Fatal("statement after return must be reported")
	}
	if s.Add(Next) {
		t.Fatal("only the first unreachable statement is reported")
	}
	if s.Flow() != Return || !s.HasUnreachable() {
		t.Fatalf("flow = %s", s.Flow())
	}
}

func TestSequenceKeepsEarlierExits(t *testing.T) {
	s := NewSequence()
	s.Add(Next | Break)
	s.Add(Next | Return)
	if got := s.Flow(); got != Next|Break|Return {
		t.Fatalf("flow = %s", got)
	}
}

func TestLoop(t *testing.T) {
	tests := []struct {
		name     string
		body     Flow
		infinite bool
		want     Flow
	}{
		{"plain", Next, false, Next},
		{"break absorbed", Next | Break, false, Next},
		{"return kept", Return, false, Next | Return},
		{"infinite no break", Next | Continue, true, None},
		{"infinite with break", Break, true, Next},
		{"infinite with return", Return | Next, true, Return},
	}
	for _, tt := range tests {
		if got := Loop(tt.body, tt.infinite); got != tt.want {
			t.Errorf("%s: Loop(%s) = %s, want %s", tt.name, tt.body, got, tt.want)
		}
	}
}

func TestBranch(t *testing.T) {
	if got := Branch(Return, Next); got != Return|Next {
		t.Fatalf("Branch = %s", got)
	}
	if got := Branch(Return, None); got != Return {
		t.Fatalf("Branch = %s", got)
	}
}

func TestBody(t *testing.T) {
	if Body(Return, false) != BodyOK {
		t.Fatal("return-only body is fine")
	}
	if Body(Next|Return, false) != BodyMissingReturn {
		t.Fatal("non-void body must not fall through")
	}
	if Body(Next, true) != BodyOK {
		t.Fatal("void body may fall through")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("escaping break must panic")
		}
	}()
	Body(Break, true)
}

func TestString(t *testing.T) {
	if got := (Next | Return).String(); got != "next|return" {
		t.Fatalf("String = %q", got)
	}
	if None.String() != "none" {
		t.Fatal("None")
	}
}
