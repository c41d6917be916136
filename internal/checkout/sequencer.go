package checkout

// Step describes one stage of the checkout wizard.
type Step struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Icon   string `json:"icon"`
}

// Steps is the fixed wizard order. The numbers are 1-based; confirmation is
// the sole terminal step.
var Steps = []Step{
	{1, "Categoria", "car"},
	{2, "Plano", "calendar"},
	{3, "Veículo", "key"},
	{4, "Opcionais", "plus"},
	{5, "Dados pessoais", "user"},
	{6, "Agendamento", "map-pin"},
	{7, "Pagamento", "credit-card"},
	{8, "Confirmação", "check"},
}

const (
	StepCategory     = 1
	StepPlan         = 2
	StepVehicle      = 3
	StepOptionals    = 4
	StepPersonalInfo = 5
	StepScheduling   = 6
	StepPayment      = 7
	StepConfirmation = 8
)

// Sequencer tracks the current wizard position. Transitions are strictly
// forward via Advance, triggered by each stage's successful submit; Back is
// allowed but never rolls back persisted side effects.
type Sequencer struct {
	current int
}

func NewSequencer() *Sequencer {
	return &Sequencer{current: 1}
}

// Resume restores a sequencer at a persisted step, clamped to [1..N].
func Resume(step int) *Sequencer {
	s := &Sequencer{current: step}
	s.clamp()
	return s
}

func (s *Sequencer) Current() int {
	return s.current
}

func (s *Sequencer) CurrentStep() Step {
	return Steps[s.current-1]
}

// Advance moves forward one step. On the terminal step it is a no-op.
func (s *Sequencer) Advance() int {
	s.current++
	s.clamp()
	return s.current
}

// Back moves one step backward, never below the first step.
func (s *Sequencer) Back() int {
	s.current--
	s.clamp()
	return s.current
}

func (s *Sequencer) Done() bool {
	return s.current == len(Steps)
}

func (s *Sequencer) clamp() {
	if s.current < 1 {
		s.current = 1
	}
	if s.current > len(Steps) {
		s.current = len(Steps)
	}
}
