// Package progate реализует клиентский гейт для контента, доступного только
// на тарифе pro.
//
// Guard — конечный автомат из трёх состояний: loading, blocked и allowed.
// Каждый цикл проверки начинается вызовом Begin, который выдаёт номер
// попытки; результат асинхронной проверки применяется через Resolve с этим
// номером. Результат отбрасывается, если его номер не новее последнего
// применённого или если гейт уже отменён: побеждает последняя выданная
// попытка, а не та, чей ответ пришёл последним. Пока состояние не allowed,
// охраняемое поддерево не отрисовывается вовсе — даже заглушкой.
package progate

import (
	"sync"

	"github.com/magabrotheeeer/access-gate/internal/models"
)

// FallbackPath — путь, на который уводится пользователь без тарифа pro.
// Параметр error позволяет целевой странице показать поясняющее сообщение.
const FallbackPath = "/apps?error=pro_required"

// State — состояние гейта.
type State int

// Возможные состояния гейта.
const (
	StateLoading State = iota
	StateBlocked
	StateAllowed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateBlocked:
		return "blocked"
	case StateAllowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// Guard охраняет поддерево контента, доступного только на тарифе pro.
// Все методы безопасны для конкурентного вызова.
type Guard struct {
	mu       sync.Mutex
	state    State
	issued   uint64 // номер последней выданной попытки
	applied  uint64 // номер последней применённой попытки
	canceled bool
	redirect string
}

// NewGuard возвращает Guard в состоянии loading.
func NewGuard() *Guard {
	return &Guard{state: StateLoading}
}

// Begin начинает новый цикл проверки и возвращает номер попытки,
// который нужно передать в Resolve вместе с результатом. Гейт обязан
// начинать новый цикл при каждом изменении статуса подписки, а не
// проверять его один раз при монтировании.
func (g *Guard) Begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return g.issued
}

// Resolve применяет результат проверки попытки attempt.
//
// Результат отбрасывается, если гейт отменён, попытка не новее последней
// применённой или номер не был выдан Begin. Так blocked не может смениться
// на allowed из-за устаревшего успешного ответа, пришедшего с опозданием.
// Возвращает true, если состояние было применено.
func (g *Guard) Resolve(attempt uint64, status models.SubscriptionStatus) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.canceled || attempt <= g.applied || attempt > g.issued {
		return false
	}
	g.applied = attempt
	if status.Plan == models.PlanPro {
		g.state = StateAllowed
		g.redirect = ""
	} else {
		g.state = StateBlocked
		g.redirect = FallbackPath
	}
	return true
}

// Cancel отменяет гейт: все результаты, пришедшие после, игнорируются.
// Вызывается при размонтировании охраняемого поддерева.
func (g *Guard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.canceled = true
}

// State возвращает текущее состояние гейта.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Allowed сообщает, разрешена ли отрисовка охраняемого поддерева.
func (g *Guard) Allowed() bool {
	return g.State() == StateAllowed
}

// RedirectTo возвращает путь для клиентской навигации в состоянии blocked
// и пустую строку в остальных состояниях.
func (g *Guard) RedirectTo() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.redirect
}

// Render возвращает результат children только в состоянии allowed.
// В loading и blocked охраняемое содержимое не отрисовывается даже
// частично, чтобы платный контент не мелькал до завершения проверки.
func (g *Guard) Render(children func() string) string {
	if g.Allowed() {
		return children()
	}
	return ""
}
