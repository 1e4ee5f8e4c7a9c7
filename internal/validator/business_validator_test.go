package validator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
)

func intPtr(v int) *int { return &v }

func validQuizRequest() *CreateQuizRequest {
	return &CreateQuizRequest{
		Title: "Go basics",
		Questions: []QuestionSpec{
			{
				Text:          "Which keyword starts a goroutine?",
				Type:          models.MultipleChoice,
				OptionA:       "go",
				OptionB:       "run",
				OptionC:       "spawn",
				OptionD:       "async",
				CorrectOption: "A",
			},
			{Text: "Name the zero value of a map", Type: models.ShortAnswer, Points: intPtr(2)},
		},
		AssignedUserIDs: []uint{2, 3},
	}
}

func hasField(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestBusinessValidator_ValidateQuizCreate(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name      string
		mutate    func(*CreateQuizRequest)
		wantField string
	}{
		{name: "valid request", mutate: func(*CreateQuizRequest) {}},
		{name: "blank title", mutate: func(r *CreateQuizRequest) { r.Title = "   " }, wantField: "title"},
		{name: "title too long", mutate: func(r *CreateQuizRequest) { r.Title = strings.Repeat("x", 101) }, wantField: "title"},
		{name: "no questions", mutate: func(r *CreateQuizRequest) { r.Questions = []QuestionSpec{} }, wantField: "questions"},
		{name: "nil questions", mutate: func(r *CreateQuizRequest) { r.Questions = nil }, wantField: "questions"},
		{name: "no assignees", mutate: func(r *CreateQuizRequest) { r.AssignedUserIDs = nil }, wantField: "assigned_user_ids"},
		{name: "zero assignee id", mutate: func(r *CreateQuizRequest) { r.AssignedUserIDs = []uint{0} }, wantField: "assigned_user_ids[0]"},
		{name: "unknown type", mutate: func(r *CreateQuizRequest) { r.Questions[0].Type = "essay" }, wantField: "questions[0].type"},
		{name: "missing option", mutate: func(r *CreateQuizRequest) { r.Questions[0].OptionC = " " }, wantField: "questions[0].option_c"},
		{name: "missing correct option", mutate: func(r *CreateQuizRequest) { r.Questions[0].CorrectOption = "" }, wantField: "questions[0].correct_option"},
		{name: "bad correct option", mutate: func(r *CreateQuizRequest) { r.Questions[0].CorrectOption = "e" }, wantField: "questions[0].correct_option"},
		{name: "blank short answer text", mutate: func(r *CreateQuizRequest) { r.Questions[1].Text = "  " }, wantField: "questions[1].text"},
		{name: "missing short answer text", mutate: func(r *CreateQuizRequest) { r.Questions[1].Text = "" }, wantField: "questions[1].text"},
		{name: "zero points", mutate: func(r *CreateQuizRequest) { r.Questions[1].Points = intPtr(0) }, wantField: "questions[1].points"},
		{name: "negative points", mutate: func(r *CreateQuizRequest) { r.Questions[1].Points = intPtr(-3) }, wantField: "questions[1].points"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validQuizRequest()
			tt.mutate(req)
			errs := bv.ValidateQuizCreate(req)

			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if !hasField(errs, tt.wantField) {
				t.Fatalf("expected error on %s, got %+v", tt.wantField, errs)
			}
		})
	}
}

func TestBusinessValidator_ShortAnswerNeedsNoOptions(t *testing.T) {
	bv := NewBusinessValidator()
	req := &CreateQuizRequest{
		Title:           "Essay-ish",
		Questions:       []QuestionSpec{{Text: "Explain channels", Type: models.ShortAnswer}},
		AssignedUserIDs: []uint{1},
	}
	if errs := bv.ValidateQuizCreate(req); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestBusinessValidator_ValidateRegister(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{name: "valid", req: RegisterRequest{Email: "a@example.com", Password: "secret"}},
		{name: "bad email", req: RegisterRequest{Email: "nope", Password: "secret"}, wantErr: true},
		{name: "short password", req: RegisterRequest{Email: "a@example.com", Password: "123"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateRegister(&tt.req)
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestGradeRequest_RawScores(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[uint]string
	}{
		{
			name: "numbers and strings",
			body: `{"scores": {"1": 2, "2": "3", "3": "abc", "4": null}}`,
			want: map[uint]string{1: "2", 2: "3", 3: "abc", 4: ""},
		},
		{
			name: "boolean reads as empty",
			body: `{"scores": {"1": true}}`,
			want: map[uint]string{1: ""},
		},
		{
			name: "object and array read as empty",
			body: `{"scores": {"1": {"v": 2}, "2": [1]}}`,
			want: map[uint]string{1: "", 2: ""},
		},
		{
			name: "non numeric keys dropped",
			body: `{"scores": {"q1": 1, "0": 2, "-3": 3, "5": 4}}`,
			want: map[uint]string{5: "4"},
		},
		{
			name: "missing scores",
			body: `{}`,
			want: map[uint]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req GradeRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			raw := req.RawScores()
			if len(raw) != len(tt.want) {
				t.Fatalf("RawScores() = %v, want %v", raw, tt.want)
			}
			for id, w := range tt.want {
				got, ok := raw[id]
				if !ok || got != w {
					t.Errorf("score[%d] = %q (present %v), want %q", id, got, ok, w)
				}
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	tests := []struct {
		name string
		errs ValidationErrors
		want string
	}{
		{name: "empty", errs: nil, want: "validation failed"},
		{name: "single", errs: ValidationErrors{{Field: "title", Message: "is required"}}, want: "validation failed: title is required"},
		{name: "many", errs: ValidationErrors{{Field: "a"}, {Field: "b"}}, want: "validation failed: 2 field errors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.errs.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
