package usecase

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/domain/user"
)

// SheetTarget selects the canonical fixture sheet or one side's submission.
type SheetTarget string

const (
	SheetCanonical SheetTarget = "canonical"
	SheetHome      SheetTarget = "home"
	SheetAway      SheetTarget = "away"
)

func ParseSheetTarget(value string) (SheetTarget, error) {
	switch target := SheetTarget(strings.ToLower(strings.TrimSpace(value))); target {
	case SheetCanonical, SheetHome, SheetAway:
		return target, nil
	default:
		return "", fmt.Errorf("%w: unknown sheet %q", ErrInvalidInput, value)
	}
}

// Side returns the submission author for a submission target.
func (t SheetTarget) Side() (fixture.Side, bool) {
	switch t {
	case SheetHome:
		return fixture.SideHome, true
	case SheetAway:
		return fixture.SideAway, true
	default:
		return "", false
	}
}

func (t SheetTarget) guardKey(fixtureID string) string {
	if side, ok := t.Side(); ok {
		return submissionGuardKey(fixtureID, side)
	}
	return fixtureGuardKey(fixtureID)
}

func fixtureGuardKey(fixtureID string) string {
	return "fixture:" + fixtureID
}

func submissionGuardKey(fixtureID string, side fixture.Side) string {
	return "submission:" + fixtureID + ":" + string(side)
}

func requireAuthenticated(principal user.Principal) error {
	if strings.TrimSpace(principal.UserID) == "" {
		return fmt.Errorf("%w: sign in required", ErrUnauthorized)
	}
	return nil
}

func requireAdmin(principal user.Principal) error {
	if err := requireAuthenticated(principal); err != nil {
		return err
	}
	if !principal.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}

// canWriteSheet: admins write every sheet, readonly users none, and team
// members only their own team's submission.
func canWriteSheet(principal user.Principal, f fixture.Fixture, target SheetTarget) error {
	if err := requireAuthenticated(principal); err != nil {
		return err
	}
	if principal.IsAdmin() {
		return nil
	}
	if principal.IsReadOnly() {
		return fmt.Errorf("%w: read-only user", ErrForbidden)
	}

	side, ok := target.Side()
	if !ok {
		return fmt.Errorf("%w: only admins edit the published fixture", ErrForbidden)
	}
	teamSide, member := f.SideOfTeam(principal.TeamID)
	if !member || teamSide != side {
		return fmt.Errorf("%w: user is not on the %s team", ErrForbidden, side)
	}
	return nil
}
