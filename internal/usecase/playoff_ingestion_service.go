package usecase

import (
	"context"
	"iter"
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/playoff-stats/internal/domain/player"
	"github.com/riskibarqy/playoff-stats/internal/domain/seasonstats"
	"github.com/riskibarqy/playoff-stats/internal/domain/team"
	idgen "github.com/riskibarqy/playoff-stats/internal/platform/id"
	"github.com/riskibarqy/playoff-stats/internal/platform/logging"
)

// Repositories groups the stores one team pass writes to. All three share
// the unit of work's transaction.
type Repositories struct {
	Teams   team.Repository
	Players player.Repository
	Stats   seasonstats.Repository
}

// UnitOfWork runs fn inside one transaction, committing when fn returns nil
// and rolling back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type RunInput struct {
	SeasonYear  int
	SeasonLabel string
}

// rosterMap joins stat rows, keyed by display name, to player ids created
// during the same team pass.
type rosterMap map[string]int64

type PlayoffIngestionService struct {
	source    PlayoffSource
	uow       UnitOfWork
	logger    *logging.Logger
	validator *validator.Validate
	ids       idgen.Generator
	now       func() time.Time
}

func NewPlayoffIngestionService(source PlayoffSource, uow UnitOfWork, logger *logging.Logger) *PlayoffIngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayoffIngestionService{
		source:    source,
		uow:       uow,
		logger:    logger,
		validator: validator.New(),
		ids:       idgen.NewRandomGenerator(),
		now:       time.Now,
	}
}

// Run discovers the season's playoff teams and loads each one in its own
// transaction. A failing team is rolled back and reported; the run moves on.
// The returned error is only set for invalid input or cancellation.
func (s *PlayoffIngestionService) Run(ctx context.Context, input RunInput) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayoffIngestionService.Run",
		attribute.Int("season.year", input.SeasonYear),
	)
	defer span.End()

	if input.SeasonYear <= 0 {
		return RunReport{}, crerr.Wrapf(ErrInvalidInput, "season year must be positive, got %d", input.SeasonYear)
	}
	input.SeasonLabel = strings.TrimSpace(input.SeasonLabel)
	if input.SeasonLabel == "" {
		input.SeasonLabel = seasonstats.SeasonLabel(input.SeasonYear)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate run id", "error", err)
	}
	report := RunReport{
		RunID:       runID,
		SeasonYear:  input.SeasonYear,
		SeasonLabel: input.SeasonLabel,
		StartedAt:   s.now().UTC(),
	}

	logger := s.logger.With("run_id", runID, "season_year", input.SeasonYear, "season", input.SeasonLabel)
	logger.InfoContext(ctx, "discovering playoff teams")

	teams := s.source.PlayoffTeams(ctx, input.SeasonYear)
	report.TeamsFound = len(teams)
	if len(teams) == 0 {
		logger.WarnContext(ctx, "no playoff teams found, nothing to load")
		report.FinishedAt = s.now().UTC()
		return report, nil
	}
	logger.InfoContext(ctx, "playoff teams discovered", "count", len(teams))

	for _, item := range teams {
		if err := ctx.Err(); err != nil {
			report.FinishedAt = s.now().UTC()
			recordSpanError(span, err)
			return report, crerr.Wrap(err, "playoff ingestion interrupted")
		}
		report.add(s.processTeam(ctx, logger, input, item))
	}

	logger.InfoContext(ctx, "playoff ingestion finished",
		"teams_committed", report.TeamsCommitted,
		"teams_skipped", report.TeamsSkipped,
		"teams_failed", report.TeamsFailed,
		"stats_inserted", report.StatsInserted,
		"stats_skipped", report.StatsSkipped,
		"unmatched", report.Unmatched,
		"collisions", report.Collisions,
	)
	report.FinishedAt = s.now().UTC()
	return report, nil
}

func (s *PlayoffIngestionService) processTeam(ctx context.Context, logger *logging.Logger, input RunInput, item ExternalTeam) TeamReport {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayoffIngestionService.processTeam",
		attribute.String("team.abbreviation", item.Abbreviation),
	)
	defer span.End()

	out := TeamReport{Name: item.Name, Abbreviation: item.Abbreviation}
	logger = logger.With("team", item.Abbreviation)

	if err := s.validator.StructCtx(ctx, item); err != nil {
		out.Outcome = TeamSkipped
		out.Error = err.Error()
		logger.WarnContext(ctx, "skipping team with incomplete standings entry", "error", err)
		return out
	}

	logger.InfoContext(ctx, "processing team", "name", item.Name)
	roster, found := s.source.Roster(ctx, item.URL)
	if !found {
		out.Outcome = TeamSkipped
		out.Error = "roster not found"
		logger.WarnContext(ctx, "roster not found, skipping team", "url", item.URL)
		return out
	}

	var tally TeamReport
	var err error
	var catcher panics.Catcher
	catcher.Try(func() {
		err = s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
			tally = TeamReport{}
			return s.loadTeam(ctx, repos, input, item, roster, &tally)
		})
	})
	if recovered := catcher.Recovered(); recovered != nil {
		err = crerr.Wrap(recovered.AsError(), "panic while loading team")
	}
	if err != nil {
		out.Outcome = TeamFailed
		out.Error = err.Error()
		recordSpanError(span, err)
		logger.ErrorContext(ctx, "team rolled back", "error", err)
		return out
	}

	tally.Name = out.Name
	tally.Abbreviation = out.Abbreviation
	tally.Outcome = TeamCommitted
	if tally.Unmatched > 0 {
		logger.WarnContext(ctx, "stat rows without a roster match were dropped", "count", tally.Unmatched)
	}
	if tally.Collisions > 0 {
		logger.WarnContext(ctx, "duplicate names in stat tables, last row kept", "count", tally.Collisions)
	}
	logger.InfoContext(ctx, "team committed",
		"players", tally.PlayersSeen,
		"players_created", tally.PlayersCreated,
		"regular_inserted", tally.RegularInserted,
		"playoff_inserted", tally.PlayoffInserted,
	)
	return tally
}

func (s *PlayoffIngestionService) loadTeam(
	ctx context.Context,
	repos Repositories,
	input RunInput,
	item ExternalTeam,
	roster iter.Seq[ExternalPlayer],
	tally *TeamReport,
) error {
	teamID, created, err := repos.Teams.Ensure(ctx, team.Team{
		Name:          item.Name,
		Abbreviation:  item.Abbreviation,
		IsPlayoffTeam: true,
	})
	if err != nil {
		return crerr.Wrap(err, "ensure team")
	}
	tally.TeamCreated = created

	players := make(rosterMap)
	for entry := range roster {
		candidate := player.Player{TeamID: teamID, Name: entry.Name, Position: entry.Position}
		if err := candidate.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping roster row", "team", item.Abbreviation, "error", err)
			continue
		}
		playerID, created, err := repos.Players.Ensure(ctx, candidate)
		if err != nil {
			return crerr.Wrapf(err, "ensure player %q", entry.Name)
		}
		players[entry.Name] = playerID
		tally.PlayersSeen++
		if created {
			tally.PlayersCreated++
		}
	}

	stats := s.source.TeamStats(ctx, item.URL)
	tally.Collisions = stats.Collisions
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, table := range []struct {
		context seasonstats.Context
		lines   map[string]seasonstats.Line
	}{
		{context: seasonstats.ContextRegular, lines: stats.Regular},
		{context: seasonstats.ContextPlayoff, lines: stats.Playoff},
	} {
		for _, name := range sortedNames(table.lines) {
			playerID, ok := players[name]
			if !ok {
				tally.Unmatched++
				tally.UnmatchedNames = append(tally.UnmatchedNames, name)
				continue
			}
			inserted, err := repos.Stats.Record(ctx, seasonstats.Record{
				PlayerID: playerID,
				Season:   input.SeasonLabel,
				Context:  table.context,
				Line:     table.lines[name],
			})
			if err != nil {
				return crerr.Wrapf(err, "record %s stats for %q", table.context, name)
			}
			tally.countStat(table.context, inserted)
		}
	}

	return nil
}

func sortedNames(lines map[string]seasonstats.Line) []string {
	out := make([]string, 0, len(lines))
	for name := range lines {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
