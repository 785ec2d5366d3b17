package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/repository"
)

const numberPrefix = "CMP-"

// NumberGenerator derives the next sequential complaint number. There is no
// concurrency guard: two simultaneous creations may race on the same number
// and the unique index on complaint_number surfaces the loser as a conflict.
type NumberGenerator struct {
	complaints repository.ComplaintRepository
}

// NewNumberGenerator constructs the generator.
func NewNumberGenerator(complaints repository.ComplaintRepository) *NumberGenerator {
	return &NumberGenerator{complaints: complaints}
}

// Next returns the next number in the CMP-00001 scheme. The highest existing
// number is parsed and incremented; when its suffix cannot be parsed the
// generator degrades to the complaint's internal id plus one.
func (g *NumberGenerator) Next(ctx context.Context) (string, error) {
	top, err := g.complaints.GetTopByNumber(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return FormatNumber(1), nil
	}
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(top.Number, numberPrefix) {
		if seq, err := strconv.Atoi(top.Number[len(numberPrefix):]); err == nil {
			return FormatNumber(int64(seq) + 1), nil
		}
		// Broken suffix: fall back to the internal id. Correctness is not
		// guaranteed here, only uniqueness in practice.
		return FormatNumber(top.ID + 1), nil
	}

	return FormatNumber(1), nil
}

// FormatNumber renders a sequence value in the CMP-00001 scheme.
func FormatNumber(seq int64) string {
	return fmt.Sprintf("%s%05d", numberPrefix, seq)
}
