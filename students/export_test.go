package students

import "time"

// SetClock troca o relógio do serviço nos testes.
func (s *Service) SetClock(now func() time.Time) { s.now = now }
