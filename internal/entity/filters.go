package entity

type StatusFilter string

const StatusFilterAll StatusFilter = "All"

// MatchMode combina o predicado de busca com o predicado de status.
type MatchMode string

const (
	MatchAnd MatchMode = "AND"
	MatchOr  MatchMode = "OR"
)

// Filters é a seleção persistida em "leadFilters".
type Filters struct {
	Status StatusFilter `json:"status"`
	Match  MatchMode    `json:"match"`
}

func DefaultFilters() Filters {
	return Filters{Status: StatusFilterAll, Match: MatchAnd}
}

func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" || s == string(StatusFilterAll) {
		return StatusFilterAll, nil
	}
	st, err := ParseStatus(s)
	if err != nil {
		return "", err
	}
	return StatusFilter(st), nil
}

func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case "", MatchAnd:
		return MatchAnd, nil
	case MatchOr:
		return MatchOr, nil
	}
	return "", &ValidationError{Field: "match", Message: "must be AND or OR"}
}

func (f Filters) Validate() error {
	if _, err := ParseStatusFilter(string(f.Status)); err != nil {
		return err
	}
	if f.Match != MatchAnd && f.Match != MatchOr {
		return &ValidationError{Field: "match", Message: "must be AND or OR"}
	}
	return nil
}

// StatusOrNil devolve o status selecionado, ou nil quando o filtro é "All".
func (f Filters) StatusOrNil() *Status {
	if f.Status == "" || f.Status == StatusFilterAll {
		return nil
	}
	s := Status(f.Status)
	return &s
}
