package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/btr-engine/backend/internal/audit"
	"github.com/btr-engine/backend/internal/marriage"
	"github.com/btr-engine/backend/internal/rectification"
	"github.com/btr-engine/backend/internal/search"
	"github.com/btr-engine/backend/internal/storage/models"
	"github.com/btr-engine/backend/internal/vedic"
)

func newChartCmd(opts *options) *cobra.Command {
	var varga string
	var trace bool

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Calculate the chart and rectification checks for a birth time",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := vedic.ParseVarga(varga)
			if err != nil {
				return err
			}
			in, err := opts.input(cmd)
			if err != nil {
				return err
			}

			res := opts.engine.Calculate(in)
			return emit(cmd.OutOrStdout(), opts.output, res, func(w io.Writer) {
				renderResult(w, res, v)
				if trace {
					title(w, "Trace")
					fmt.Fprintln(w, res.Report.Trace)
				}
			})
		},
	}
	cmd.Flags().StringVar(&varga, "varga", string(vedic.D1), "sign column to show: D1, D3-J, D9, D60")
	cmd.Flags().BoolVar(&trace, "trace", false, "print the forensic trace")
	return cmd
}

func renderResult(w io.Writer, res *search.Result, v vedic.Varga) {
	chart := res.Chart

	summary := []string{
		"Instant (UTC)", res.Instant.UTC().Format(time.RFC3339),
		"Local time", res.LocalTime,
		"Ayanamsa", vedic.SplitDegrees(chart.Ayanamsa).String(),
		"Kunda", fmt.Sprintf("%s, %d from Moon %s", res.Kunda.SignName, res.Kunda.Distance, mark(res.Kunda.Match)),
	}
	if res.SunriseAvailable() {
		summary = append(summary,
			"Sunrise (UTC)", chart.Sunrise.UTC().Format(time.RFC3339),
			"Vighatika", fmt.Sprintf("%.2f (%s)", res.Vighatika.TotalVighatikas, res.Vighatika.Body),
			"Jaimini sex", fmt.Sprintf("%s %s", res.Sex.Sex, mark(res.GenderMatch)),
			"Tattwa", fmt.Sprintf("%s (%s)", res.Tattwa.Name, res.Tattwa.Sex),
		)
	} else {
		summary = append(summary, "Sunrise", "unavailable at this latitude and date")
	}
	summary = append(summary, "Rectified", fmt.Sprintf("%s (%d/4)", verdict(res.Report.IsRectified), res.Report.Score))

	title(w, "Birth moment")
	keyValues(w, summary...)

	title(w, "Placements")
	t := newTable("Point", "Sign", "Degree", string(v), "D60 Deity", "Nakshatra", "Dignity")
	for _, p := range chart.Placements() {
		if p.Kind == vedic.KindPranapada && !chart.PranapadaAvailable {
			continue
		}
		name := p.Name
		if p.IsRetro {
			name += " (R)"
		}
		t.Row(
			name,
			p.Sign,
			p.DMS.String(),
			vedic.SignName(p.SignIn(v)),
			p.D60Deity,
			fmt.Sprintf("%s %d", p.Nakshatra, p.Pada),
			string(p.Dignity),
		)
	}
	render(w, t)

	title(w, "Rectification checks")
	t = newTable("Check", "Status", "Rationale")
	for _, c := range res.Report.Checks {
		t.Row(c.Label, verdict(c.Passed()), c.Rationale)
	}
	render(w, t)

	if len(res.Report.PastLife) > 0 {
		title(w, "Past life")
		t = newTable("Planet", "House", "Location", "Continent", "Passing")
		for _, f := range res.Report.PastLife {
			t.Row(f.Planet, strconv.Itoa(f.House), f.Location, f.Continent, f.Passing)
		}
		render(w, t)
	}
}

func newAutoCorrectCmd(opts *options) *cobra.Command {
	var direction int

	cmd := &cobra.Command{
		Use:   "autocorrect",
		Short: "Scan ten minutes forward or backward for the best scoring time",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.input(cmd)
			if err != nil {
				return err
			}

			corr, err := opts.engine.AutoCorrect(in, direction)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.output, corr, func(w io.Writer) {
				title(w, "Auto-correct")
				keyValues(w,
					"Local time", corr.LocalTime,
					"Offset", signedSeconds(corr.Offset),
					"Score", fmt.Sprintf("%.1f / %.1f", corr.Score, search.MaxAutoCorrectScore),
					"Evaluated", strconv.Itoa(corr.Evaluated),
					"Rectified", verdict(corr.Result.Report.IsRectified),
				)
			})
		},
	}
	cmd.Flags().IntVar(&direction, "direction", 1, "1 scans forward, -1 backward")
	return cmd
}

func newSweepCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Rank every 15 seconds within ten minutes of the birth time",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.input(cmd)
			if err != nil {
				return err
			}

			s := opts.engine.SweepWindow(in, nil)
			for i := range s.Candidates {
				s.Candidates[i].Result = nil
			}
			for i := range s.Suggestions {
				s.Suggestions[i].Result = nil
			}
			return emit(cmd.OutOrStdout(), opts.output, s, func(w io.Writer) {
				if len(s.Suggestions) == 0 {
					title(w, fmt.Sprintf("No suggestion: top confidence %d%% is below %d%%", s.Candidates[0].Confidence, search.SuggestionFloor))
				} else {
					title(w, "Suggestions")
					render(w, candidateTable(s.Suggestions))
				}
				n := limit
				if n <= 0 || n > len(s.Candidates) {
					n = len(s.Candidates)
				}
				title(w, fmt.Sprintf("Top %d of %d candidates", n, len(s.Candidates)))
				render(w, candidateTable(s.Candidates[:n]))
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "candidates to list in table output (0 for all)")
	return cmd
}

func candidateTable(cands []search.Candidate) *table.Table {
	t := newTable("Time", "Offset", "Confidence", "Checks", "Gender", "Kunda", "Vighatika")
	for _, c := range cands {
		t.Row(
			c.LocalTime,
			signedSeconds(c.Offset),
			strconv.Itoa(c.Confidence)+"%",
			strconv.Itoa(c.ChecksPassed)+"/4",
			mark(c.GenderMatch),
			mark(c.KundaMatch),
			c.Body,
		)
	}
	return t
}

func newAutoFixCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "autofix",
		Short: "Find the nearest time whose D9 Pranapada is 1, 5, 7 or 9 from the Moon",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.input(cmd)
			if err != nil {
				return err
			}

			fix, err := opts.engine.AutoFixPranapada(in)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.output, fix, func(w io.Writer) {
				title(w, "Pranapada fix")
				keyValues(w,
					"Local time", fix.LocalTime,
					"Offset", signedSeconds(fix.Offset),
					"Pranapada D9", fix.PPSign,
					"Moon D9", fix.MoonSign,
					"House from Moon", strconv.Itoa(fix.House),
				)
			})
		},
	}
}

func newMicroScanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "microscan",
		Short: "List the Vighatika slits around the birth time",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.input(cmd)
			if err != nil {
				return err
			}

			slits, err := opts.engine.MicroScanFor(in)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.output, slits, func(w io.Writer) {
				title(w, "Vighatika micro-scan")
				t := newTable("Offset", "Local time", "Vighatika", "Body", "Sex")
				for _, s := range slits {
					t.Row(
						strconv.Itoa(s.Offset),
						in.Local(s.Instant).Format(search.TimeLayout),
						strconv.Itoa(s.Vighatika),
						s.Body,
						string(s.Sex),
					)
				}
				render(w, t)
			})
		},
	}
}

func newTimelineCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Map the four tracks over ±8 Vighatikas",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.input(cmd)
			if err != nil {
				return err
			}

			tl := opts.engine.Timeline(in)
			return emit(cmd.OutOrStdout(), opts.output, tl, func(w io.Writer) {
				title(w, "Timeline, D60 targets: "+strings.Join(tl.Targets, ", "))
				t := newTable("Local time", "Offset", "D60", "PP", "Kunda", "Gender", "")
				for _, s := range tl.Segments {
					golden := ""
					if s.Golden {
						golden = passStyle.Render("golden")
					}
					t.Row(
						s.LocalTime,
						signedSeconds(s.Offset),
						mark(s.D60Match),
						mark(s.PPMatch),
						mark(s.KundaMatch),
						mark(s.GenderMatch),
						golden,
					)
				}
				render(w, t)
			})
		},
	}
}

func newAuditCmd(opts *options) *cobra.Command {
	var raw []string

	cmd := &cobra.Command{
		Use:     "audit",
		Short:   "Show the auditor panel with optional manual overrides",
		Example: `  btr audit --date 1985-05-20 --time 14:30:15 --override d60=PASS --override kunda=FAIL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := make(map[string]string, len(raw))
			for _, r := range raw {
				k, v, ok := strings.Cut(r, "=")
				if !ok {
					return fmt.Errorf("override %q must be row=STATE", r)
				}
				pairs[k] = v
			}
			overrides, err := audit.ParseOverrides(pairs)
			if err != nil {
				return err
			}

			in, err := opts.input(cmd)
			if err != nil {
				return err
			}

			panel := audit.Evaluate(opts.engine.Calculate(in), in.Gender, overrides)
			return emit(cmd.OutOrStdout(), opts.output, panel, func(w io.Writer) {
				title(w, fmt.Sprintf("Auditor: %d/4 (%.0f%%)", panel.Passed, panel.MatchPercent))
				t := newTable("Row", "Auto", "Override", "Result", "Reason", "Nudge")
				for _, r := range panel.Rows {
					t.Row(
						r.Label,
						verdict(r.Auto),
						string(r.Override),
						verdict(r.Passed),
						r.Reason,
						fmt.Sprintf("%s / %s", signedSeconds(r.Nudge[0]), signedSeconds(r.Nudge[1])),
					)
				}
				render(w, t)
			})
		},
	}
	cmd.Flags().StringArrayVar(&raw, "override", nil, "row=STATE with row d60, pp, kunda, gender and STATE AUTO, PASS, FAIL")
	return cmd
}

func newMarriageCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "marriage",
		Short: "Assess Venus for marriage prospects",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.input(cmd)
			if err != nil {
				return err
			}

			report := marriage.Analyze(opts.engine.Calculate(in).Chart)
			return emit(cmd.OutOrStdout(), opts.output, report, func(w io.Writer) {
				title(w, "Marriage")
				t := newTable("Step", "Check", "Result", "Impact")
				for _, s := range report.Steps {
					t.Row(s.Label, s.Check, s.Result, s.Impact)
				}
				render(w, t)
				keyValues(w,
					"Severity", strconv.Itoa(report.Severity),
					"Conclusion", report.Conclusion.Status,
					"", report.Conclusion.Description,
				)
			})
		},
	}
}

func newSoundsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sounds",
		Short: "List the Hoda cakra sounds and their signs",
		RunE: func(cmd *cobra.Command, args []string) error {
			sounds := rectification.Sounds()
			return emit(cmd.OutOrStdout(), opts.output, sounds, func(w io.Writer) {
				t := newTable("Sound", "Sign")
				for _, s := range sounds {
					t.Row(s.Key, s.SignName)
				}
				render(w, t)
			})
		},
	}
}

func newNativesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "natives",
		Short: "List saved natives",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			natives, err := store.ListNatives(0)
			if err != nil {
				return err
			}
			if natives == nil {
				natives = []models.Native{}
			}
			return emit(cmd.OutOrStdout(), opts.output, natives, func(w io.Writer) {
				t := newTable("ID", "Name", "Date", "Time", "TZ", "Place")
				for _, n := range natives {
					t.Row(n.ID, n.Name, n.BirthDate, n.BirthTime, strconv.FormatFloat(n.TZOffset, 'f', -1, 64), n.Place)
				}
				render(w, t)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Save the birth data given by flags as a native",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(cmd)
			if err != nil {
				return err
			}
			in, err := req.Validate()
			if err != nil {
				return err
			}

			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var place string
			if opts.native == "" && !cmd.Flags().Changed("lat") && !cmd.Flags().Changed("lon") {
				place = opts.cfg.Defaults.Place
			}

			n := &models.Native{
				Name:         req.Name,
				Gender:       string(in.Gender),
				BirthDate:    req.Date,
				BirthTime:    req.Time,
				TZOffset:     *req.TZOffset,
				Latitude:     *req.Latitude,
				Longitude:    *req.Longitude,
				Place:        place,
				ForcedSound:  req.ForcedSound,
				ForcedArudha: req.ForcedArudha,
			}
			if err := store.SaveNative(n); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.ID)
			return nil
		},
	})
	return cmd
}
