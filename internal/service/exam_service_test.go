package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aulavia/examenes-backend/internal/config"
	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/aulavia/examenes-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ─── In-memory fakes ───────────────────────────────────────────────────

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// fakeStore runs the callback without a real transaction. Fakes mutate their
// maps directly, so rollback semantics are not simulated.
type fakeStore struct{}

func (fakeStore) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeTokenLedger struct {
	byCode map[string]*model.ExamToken

	// insertErrs is consumed one per Insert call; nil entries mean success.
	insertErrs  []error
	insertCalls int
	inserted    []*model.ExamToken
}

func newFakeTokenLedger() *fakeTokenLedger {
	return &fakeTokenLedger{byCode: make(map[string]*model.ExamToken)}
}

func (f *fakeTokenLedger) GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*model.ExamToken, error) {
	t, ok := f.byCode[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTokenLedger) MarkUsedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, usedAt time.Time) error {
	for _, t := range f.byCode {
		if t.ID == id {
			t.FechaUso = &usedAt
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTokenLedger) Insert(ctx context.Context, t *model.ExamToken) error {
	f.insertCalls++
	if len(f.insertErrs) > 0 {
		err := f.insertErrs[0]
		f.insertErrs = f.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	t.ID = uuid.New()
	t.FechaCreacion = time.Now()
	f.inserted = append(f.inserted, t)
	f.byCode[t.CodigoToken] = t
	return nil
}

type fakeAttemptStore struct {
	clock    *fakeClock
	attempts map[uuid.UUID]*model.ExamAttempt
}

func (f *fakeAttemptStore) CreateTx(ctx context.Context, tx pgx.Tx, a *model.ExamAttempt) error {
	a.ID = uuid.New()
	a.FechaInicio = f.clock.Now()
	a.Estado = model.AttemptStateInProgress
	cp := *a
	f.attempts[a.ID] = &cp
	return nil
}

func (f *fakeAttemptStore) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamAttempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttemptStore) MarkTerminalIfInProgress(ctx context.Context, id uuid.UUID, estado model.AttemptState, finishedAt time.Time) (bool, error) {
	a, ok := f.attempts[id]
	if !ok || a.Estado != model.AttemptStateInProgress {
		return false, nil
	}
	a.Estado = estado
	a.FechaFin = &finishedAt
	return true, nil
}

func (f *fakeAttemptStore) ListOverdue(ctx context.Context, startedBefore time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, a := range f.attempts {
		if a.Estado == model.AttemptStateInProgress && a.FechaInicio.Before(startedBefore) {
			ids = append(ids, id)
		}
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}

func (f *fakeAttemptStore) SetResult(ctx context.Context, id uuid.UUID, nota float64, aprobado bool) error {
	a, ok := f.attempts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Nota = &nota
	a.Aprobado = &aprobado
	return nil
}

type assignedEntry struct {
	id       uuid.UUID
	posicion int
	answered bool
}

type fakeSequenceStore struct {
	bankSize  int
	sequences map[uuid.UUID][]*assignedEntry
}

func newFakeSequenceStore(bankSize int) *fakeSequenceStore {
	return &fakeSequenceStore{bankSize: bankSize, sequences: make(map[uuid.UUID][]*assignedEntry)}
}

func (f *fakeSequenceStore) AssignRandomTx(ctx context.Context, tx pgx.Tx, intentoID uuid.UUID, count int) (int, error) {
	n := count
	if f.bankSize < n {
		n = f.bankSize
	}
	seq := make([]*assignedEntry, 0, n)
	for i := 1; i <= n; i++ {
		seq = append(seq, &assignedEntry{id: uuid.New(), posicion: i})
	}
	f.sequences[intentoID] = seq
	return n, nil
}

func (f *fakeSequenceStore) FetchByPositionTx(ctx context.Context, tx pgx.Tx, intentoID uuid.UUID, posicion int) (*model.QuestionView, error) {
	return f.FetchByPosition(ctx, intentoID, posicion)
}

func (f *fakeSequenceStore) FetchByPosition(ctx context.Context, intentoID uuid.UUID, posicion int) (*model.QuestionView, error) {
	for _, e := range f.sequences[intentoID] {
		if e.posicion == posicion {
			return &model.QuestionView{
				PreguntaIntentoID: e.id,
				Posicion:          e.posicion,
				Enunciado:         fmt.Sprintf("pregunta %d", e.posicion),
				Opciones:          json.RawMessage(`[]`),
			}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSequenceStore) AnsweredCount(ctx context.Context, intentoID uuid.UUID) (int, error) {
	n := 0
	for _, e := range f.sequences[intentoID] {
		if e.answered {
			n++
		}
	}
	return n, nil
}

func (f *fakeSequenceStore) PositionOf(ctx context.Context, intentoID, preguntaIntentoID uuid.UUID) (int, error) {
	for _, e := range f.sequences[intentoID] {
		if e.id == preguntaIntentoID {
			return e.posicion, nil
		}
	}
	return 0, pgx.ErrNoRows
}

func (f *fakeSequenceStore) markAnswered(intentoID uuid.UUID, posicion int) {
	for _, e := range f.sequences[intentoID] {
		if e.posicion == posicion {
			e.answered = true
		}
	}
}

type fakeAnswerStore struct {
	seq *fakeSequenceStore

	// failNext, when set, is returned by the next Insert call.
	failNext error
}

func (f *fakeAnswerStore) Insert(ctx context.Context, preguntaIntentoID, opcionID uuid.UUID) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	for _, seq := range f.seq.sequences {
		for _, e := range seq {
			if e.id == preguntaIntentoID {
				if e.answered {
					return repository.ErrDuplicateAnswer
				}
				e.answered = true
				return nil
			}
		}
	}
	return repository.ErrOptionMismatch
}

type fakeGrader struct {
	attempts *fakeAttemptStore
	calls    map[uuid.UUID]int

	// failures makes the next n Grade calls fail before persisting anything.
	failures int
}

func (f *fakeGrader) Grade(ctx context.Context, intentoID uuid.UUID) error {
	f.calls[intentoID]++
	if f.failures > 0 {
		f.failures--
		return errors.New("grade: connection reset")
	}
	return f.attempts.SetResult(ctx, intentoID, 80, true)
}

// ─── Harness ───────────────────────────────────────────────────────────

type harness struct {
	svc      *ExamService
	clock    *fakeClock
	tokens   *fakeTokenLedger
	attempts *fakeAttemptStore
	seq      *fakeSequenceStore
	answers  *fakeAnswerStore
	grader   *fakeGrader
	cfg      *config.Config
}

func newHarness(bankSize int) *harness {
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	attempts := &fakeAttemptStore{clock: clock, attempts: make(map[uuid.UUID]*model.ExamAttempt)}
	seq := newFakeSequenceStore(bankSize)
	tokens := newFakeTokenLedger()
	answers := &fakeAnswerStore{seq: seq}
	grader := &fakeGrader{attempts: attempts, calls: make(map[uuid.UUID]int)}
	cfg := &config.Config{
		ExamDuration:        20 * time.Minute,
		QuestionsPerAttempt: 3,
		PassingScore:        70,
	}

	svc := NewExamService(fakeStore{}, tokens, attempts, seq, answers, grader, cfg, zerolog.Nop())
	svc.now = clock.Now

	return &harness{svc: svc, clock: clock, tokens: tokens, attempts: attempts, seq: seq, answers: answers, grader: grader, cfg: cfg}
}

func (h *harness) addToken(code string, expiracion *time.Time) *model.ExamToken {
	t := &model.ExamToken{
		ID:              uuid.New(),
		CodigoToken:     code,
		CreadoPor:       uuid.New(),
		FechaCreacion:   h.clock.Now(),
		FechaExpiracion: expiracion,
	}
	h.tokens.byCode[code] = t
	return t
}

func (h *harness) start(t *testing.T, code string) *model.StartExamResponse {
	t.Helper()
	resp, err := h.svc.Start(context.Background(), "Ana Torres", code)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return resp
}

// answerPosition answers the question currently at the given position.
func (h *harness) answerPosition(t *testing.T, intentoID uuid.UUID, posicion int) (*model.ProgressResponse, *model.ResultResponse, error) {
	t.Helper()
	q, err := h.seq.FetchByPosition(context.Background(), intentoID, posicion)
	if err != nil {
		t.Fatalf("fetch position %d: %v", posicion, err)
	}
	return h.svc.Answer(context.Background(), intentoID, q.PreguntaIntentoID, uuid.New())
}

// ─── Start ─────────────────────────────────────────────────────────────

func TestStartServesFirstQuestion(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)

	resp := h.start(t, "ABCD2345")

	if resp.IntentoID == uuid.Nil {
		t.Error("expected non-nil intento_id")
	}
	if resp.Pregunta == nil || resp.Pregunta.Posicion != 1 {
		t.Errorf("expected question at position 1, got %+v", resp.Pregunta)
	}
	wantDeadline := h.clock.Now().Add(20 * time.Minute)
	if !resp.ExpiresAt.Equal(wantDeadline) {
		t.Errorf("expiresAt = %v, want %v", resp.ExpiresAt, wantDeadline)
	}

	if used := h.tokens.byCode["ABCD2345"].FechaUso; used == nil {
		t.Error("token should be marked used")
	}
	if len(h.seq.sequences[resp.IntentoID]) != 3 {
		t.Errorf("expected 3 assigned questions, got %d", len(h.seq.sequences[resp.IntentoID]))
	}
}

func TestStartTokenSingleUse(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)

	h.start(t, "ABCD2345")

	_, err := h.svc.Start(context.Background(), "Otro Alumno", "ABCD2345")
	if !errors.Is(err, ErrTokenUsed) {
		t.Errorf("second redemption: got %v, want ErrTokenUsed", err)
	}
}

func TestStartTokenValidation(t *testing.T) {
	h := newHarness(5)
	past := h.clock.Now().Add(-time.Minute)
	used := h.clock.Now().Add(-time.Hour)
	h.addToken("EXPIRADO", &past)
	h.addToken("USADO234", nil).FechaUso = &used

	cases := []struct {
		name string
		code string
		want error
	}{
		{"unknown", "NOEXISTE", ErrTokenNotFound},
		{"used", "USADO234", ErrTokenUsed},
		{"expired", "EXPIRADO", ErrTokenExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.svc.Start(context.Background(), "Ana Torres", tc.code)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestStartFailsWhenBankTooSmall(t *testing.T) {
	h := newHarness(2) // bank smaller than QuestionsPerAttempt=3
	h.addToken("ABCD2345", nil)

	_, err := h.svc.Start(context.Background(), "Ana Torres", "ABCD2345")
	if err == nil {
		t.Fatal("expected error when question bank is too small")
	}
	if errors.Is(err, ErrTokenNotFound) || errors.Is(err, ErrTokenUsed) {
		t.Errorf("bank shortage must not surface as a token error, got %v", err)
	}
}

// ─── Answer ────────────────────────────────────────────────────────────

func TestAnswerEnforcesOrder(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")

	// Skipping ahead to position 2 is rejected.
	_, _, err := h.answerPosition(t, resp.IntentoID, 2)
	if !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("skip ahead: got %v, want ErrOutOfOrder", err)
	}

	// Position 1 in order succeeds and serves position 2.
	progress, result, err := h.answerPosition(t, resp.IntentoID, 1)
	if err != nil {
		t.Fatalf("answer position 1: %v", err)
	}
	if result != nil {
		t.Fatal("attempt should not be finished after one answer")
	}
	if progress.Pregunta.Posicion != 2 {
		t.Errorf("next question position = %d, want 2", progress.Pregunta.Posicion)
	}

	// Replaying position 1 is now behind the cursor.
	_, _, err = h.answerPosition(t, resp.IntentoID, 1)
	if !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("replay: got %v, want ErrOutOfOrder", err)
	}
}

func TestAnswerRejectsForeignQuestion(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")

	_, _, err := h.svc.Answer(context.Background(), resp.IntentoID, uuid.New(), uuid.New())
	if !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("got %v, want ErrInvalidQuestion", err)
	}
}

func TestAnswerMapsStorageConflicts(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")

	// A concurrent duplicate that slipped past the order check loses on the
	// storage uniqueness constraint.
	h.answers.failNext = repository.ErrDuplicateAnswer
	_, _, err := h.answerPosition(t, resp.IntentoID, 1)
	if !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("duplicate insert: got %v, want ErrAlreadyAnswered", err)
	}

	h.answers.failNext = repository.ErrOptionMismatch
	_, _, err = h.answerPosition(t, resp.IntentoID, 1)
	if !errors.Is(err, ErrInvalidOption) {
		t.Errorf("option mismatch: got %v, want ErrInvalidOption", err)
	}
}

func TestAnswerLastPositionFinishesAttempt(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")

	for pos := 1; pos <= 2; pos++ {
		if _, result, err := h.answerPosition(t, resp.IntentoID, pos); err != nil || result != nil {
			t.Fatalf("position %d: err=%v result=%v", pos, err, result)
		}
	}

	progress, result, err := h.answerPosition(t, resp.IntentoID, 3)
	if err != nil {
		t.Fatalf("last answer: %v", err)
	}
	if progress != nil {
		t.Fatal("no further question expected after the last answer")
	}
	if !result.Finalizado || result.Estado != model.AttemptStateCompleted {
		t.Errorf("result = %+v, want finalizado completado", result)
	}
	if result.Nota == nil || result.Aprobado == nil {
		t.Error("terminal result must carry nota and aprobado")
	}
	if got := h.grader.calls[resp.IntentoID]; got != 1 {
		t.Errorf("grader invoked %d times, want 1", got)
	}

	// The attempt is sealed: any further answer is rejected.
	_, _, err = h.answerPosition(t, resp.IntentoID, 3)
	if !errors.Is(err, ErrExamFinished) {
		t.Errorf("answer after finish: got %v, want ErrExamFinished", err)
	}
}

func TestAnswerUnknownAttempt(t *testing.T) {
	h := newHarness(5)
	_, _, err := h.svc.Answer(context.Background(), uuid.New(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("got %v, want ErrAttemptNotFound", err)
	}
}

// ─── CurrentQuestion ───────────────────────────────────────────────────

func TestCurrentQuestionServesFirstUnanswered(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")
	h.answerPosition(t, resp.IntentoID, 1)

	progress, result, err := h.svc.CurrentQuestion(context.Background(), resp.IntentoID)
	if err != nil {
		t.Fatalf("CurrentQuestion: %v", err)
	}
	if result != nil {
		t.Fatal("attempt is still in progress")
	}
	if progress.Pregunta.Posicion != 2 {
		t.Errorf("position = %d, want 2", progress.Pregunta.Posicion)
	}
	if progress.ExpiresAt == nil {
		t.Error("in-progress response must carry expiresAt")
	}
}

func TestCurrentQuestionFinalizesFullyAnsweredAttempt(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")

	// Simulate a client that recorded every answer but dropped before the
	// terminal response was delivered: answered rows exist, state is stale.
	for pos := 1; pos <= 3; pos++ {
		h.seq.markAnswered(resp.IntentoID, pos)
	}

	progress, result, err := h.svc.CurrentQuestion(context.Background(), resp.IntentoID)
	if err != nil {
		t.Fatalf("CurrentQuestion: %v", err)
	}
	if progress != nil {
		t.Fatal("fully answered attempt must not serve a question")
	}
	if result.Estado != model.AttemptStateCompleted {
		t.Errorf("estado = %s, want completado", result.Estado)
	}
	if h.grader.calls[resp.IntentoID] != 1 {
		t.Errorf("grader invoked %d times, want 1", h.grader.calls[resp.IntentoID])
	}
}

// ─── Expiration ────────────────────────────────────────────────────────

func TestOverdueAttemptExpiresOnNextRequest(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")
	h.answerPosition(t, resp.IntentoID, 1)

	h.clock.Advance(21 * time.Minute)

	progress, result, err := h.svc.CurrentQuestion(context.Background(), resp.IntentoID)
	if err != nil {
		t.Fatalf("CurrentQuestion: %v", err)
	}
	if progress != nil {
		t.Fatal("expired attempt must not serve a question")
	}
	if result.Estado != model.AttemptStateExpired {
		t.Errorf("estado = %s, want expirado", result.Estado)
	}
	if result.Nota == nil {
		t.Error("expired attempt must still be graded")
	}

	_, _, err = h.answerPosition(t, resp.IntentoID, 2)
	if !errors.Is(err, ErrExamFinished) {
		t.Errorf("answer after expiry: got %v, want ErrExamFinished", err)
	}
}

func TestExpirationDominatesManualFinalize(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")

	h.clock.Advance(time.Hour)

	result, err := h.svc.Finalize(context.Background(), resp.IntentoID)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if result.Estado != model.AttemptStateExpired {
		t.Errorf("estado = %s, want expirado", result.Estado)
	}
}

// ─── Finalize ──────────────────────────────────────────────────────────

func TestFinalizeIsIdempotent(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")

	first, err := h.svc.Finalize(context.Background(), resp.IntentoID)
	if err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	if first.Estado != model.AttemptStateCompleted {
		t.Errorf("estado = %s, want completado", first.Estado)
	}

	second, err := h.svc.Finalize(context.Background(), resp.IntentoID)
	if err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	if second.Estado != first.Estado || *second.Nota != *first.Nota {
		t.Errorf("repeated finalize changed the outcome: %+v vs %+v", first, second)
	}
	if h.grader.calls[resp.IntentoID] != 1 {
		t.Errorf("grader invoked %d times, want exactly 1", h.grader.calls[resp.IntentoID])
	}
}

func TestGradingFailureRepairedOnRetry(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")

	h.grader.failures = 1
	if _, err := h.svc.Finalize(context.Background(), resp.IntentoID); err == nil {
		t.Fatal("expected the failed grading to surface an error")
	}

	// The terminal state write committed before grading failed.
	a, _ := h.attempts.GetByID(context.Background(), resp.IntentoID)
	if !a.IsTerminal() || a.Nota != nil {
		t.Fatalf("precondition: want terminal ungraded attempt, got estado=%s nota=%v", a.Estado, a.Nota)
	}

	// A repeated finalize must re-run grading, not return the ungraded result.
	result, err := h.svc.Finalize(context.Background(), resp.IntentoID)
	if err != nil {
		t.Fatalf("retried finalize: %v", err)
	}
	if result.Nota == nil || result.Aprobado == nil {
		t.Errorf("retry left the attempt ungraded: %+v", result)
	}
	if h.grader.calls[resp.IntentoID] != 2 {
		t.Errorf("grader invoked %d times, want 2", h.grader.calls[resp.IntentoID])
	}
}

func TestGradingFailureRepairedByRead(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")

	h.grader.failures = 1
	h.clock.Advance(21 * time.Minute)

	// The expiry transition commits, grading fails.
	if _, err := h.svc.Result(context.Background(), resp.IntentoID); err == nil {
		t.Fatal("expected the failed grading to surface an error")
	}

	result, err := h.svc.Result(context.Background(), resp.IntentoID)
	if err != nil {
		t.Fatalf("retried result: %v", err)
	}
	if result.Estado != model.AttemptStateExpired {
		t.Errorf("estado = %s, want expirado", result.Estado)
	}
	if result.Nota == nil {
		t.Error("read after grading failure must repair the grade")
	}
}

// ─── Result ────────────────────────────────────────────────────────────

func TestResultWhileInProgress(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")

	result, err := h.svc.Result(context.Background(), resp.IntentoID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if result.Finalizado {
		t.Error("finalizado should be false while in progress")
	}
	if result.Nota != nil || result.Aprobado != nil {
		t.Error("nota and aprobado must be null while in progress")
	}
	if result.Estado != model.AttemptStateInProgress {
		t.Errorf("estado = %s, want en_progreso", result.Estado)
	}
}

func TestResultUnknownAttempt(t *testing.T) {
	h := newHarness(5)
	_, err := h.svc.Result(context.Background(), uuid.New())
	if !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("got %v, want ErrAttemptNotFound", err)
	}
}

// ─── Sweep ─────────────────────────────────────────────────────────────

func TestExpireOverdueSweep(t *testing.T) {
	h := newHarness(5)
	h.addToken("TOKEN111", nil)
	h.addToken("TOKEN222", nil)
	a1 := h.start(t, "TOKEN111")
	a2 := h.start(t, "TOKEN222")

	h.clock.Advance(25 * time.Minute)
	h.addToken("TOKEN333", nil)
	fresh := h.start(t, "TOKEN333")

	expired, err := h.svc.ExpireOverdue(context.Background(), 100)
	if err != nil {
		t.Fatalf("ExpireOverdue: %v", err)
	}
	if expired != 2 {
		t.Errorf("expired = %d, want 2", expired)
	}

	for _, id := range []uuid.UUID{a1.IntentoID, a2.IntentoID} {
		a, _ := h.attempts.GetByID(context.Background(), id)
		if a.Estado != model.AttemptStateExpired {
			t.Errorf("attempt %s estado = %s, want expirado", id, a.Estado)
		}
	}
	freshAttempt, _ := h.attempts.GetByID(context.Background(), fresh.IntentoID)
	if freshAttempt.Estado != model.AttemptStateInProgress {
		t.Errorf("fresh attempt swept: estado = %s", freshAttempt.Estado)
	}
}
