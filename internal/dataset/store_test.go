package dataset

import (
	"reflect"
	"testing"
	"time"

	"github.com/openelect/wardcast/internal/models"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestHistoryRoundTrip(t *testing.T) {
	s := openStore(t)

	h := models.WardElectionHistory{
		Ward: "Riverside",
		Elections: []models.ElectionRecord{
			{
				Date:       time.Date(2021, 5, 6, 0, 0, 0, 0, time.UTC),
				Type:       "local",
				Electorate: 6200,
				Turnout:    0.31,
				Candidates: []models.CandidateResult{
					{Party: "Labour", Share: 0.48},
					{Party: "Conservative", Share: 0.52},
				},
			},
			{
				Date:       time.Date(2023, 5, 4, 0, 0, 0, 0, time.UTC),
				Type:       "local",
				Electorate: 6350,
				Turnout:    0.29,
				Candidates: []models.CandidateResult{
					{Party: "Labour", Share: 0.51},
					{Party: "Conservative", Share: 0.49},
				},
			},
		},
	}
	if err := s.InsertHistory(h); err != nil {
		t.Fatalf("InsertHistory: %v", err)
	}

	got, ok, err := s.History("Riverside")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true for stored ward")
	}
	if len(got.Elections) != 2 {
		t.Fatalf("elections = %d, want 2", len(got.Elections))
	}
	// Oldest first.
	if got.Elections[0].Date.Year() != 2021 || got.Elections[1].Date.Year() != 2023 {
		t.Errorf("elections not ordered oldest first: %v, %v",
			got.Elections[0].Date, got.Elections[1].Date)
	}
	if got.Elections[1].Shares()["Labour"] != 0.51 {
		t.Errorf("2023 Labour share = %f, want 0.51", got.Elections[1].Shares()["Labour"])
	}

	_, ok, err = s.History("Nowhere")
	if err != nil {
		t.Fatalf("History(Nowhere): %v", err)
	}
	if ok {
		t.Error("expected ok=false for unknown ward")
	}
}

func TestInsertHistoryRejectsInvalid(t *testing.T) {
	s := openStore(t)
	bad := models.WardElectionHistory{Ward: ""}
	if err := s.InsertHistory(bad); err == nil {
		t.Error("expected validation error for empty ward name")
	}
}

func TestDemographicsRoundTrip(t *testing.T) {
	s := openStore(t)

	d := models.DemographicProfile{
		Ward:           "Riverside",
		Population:     8200,
		AgeBands:       map[string]int{"age_65_plus": 2100, "age_18_29": 900},
		EthnicityBands: map[string]int{"white_british": 6000, "asian": 1400},
		EconomicBands:  map[string]int{"economically_inactive": 2500},
	}
	if err := s.InsertDemographics(d); err != nil {
		t.Fatalf("InsertDemographics: %v", err)
	}

	got, err := s.Demographics("Riverside")
	if err != nil {
		t.Fatalf("Demographics: %v", err)
	}
	if got == nil {
		t.Fatal("expected a profile")
	}
	if got.Population != 8200 {
		t.Errorf("population = %d, want 8200", got.Population)
	}
	if !reflect.DeepEqual(got.AgeBands, d.AgeBands) {
		t.Errorf("age bands = %v, want %v", got.AgeBands, d.AgeBands)
	}
	if !reflect.DeepEqual(got.EthnicityBands, d.EthnicityBands) {
		t.Errorf("ethnicity bands = %v, want %v", got.EthnicityBands, d.EthnicityBands)
	}

	absent, err := s.Demographics("Nowhere")
	if err != nil {
		t.Fatalf("Demographics(Nowhere): %v", err)
	}
	if absent != nil {
		t.Error("missing profile should come back nil, not an error")
	}
}

func TestDeprivationRoundTrip(t *testing.T) {
	s := openStore(t)

	if err := s.InsertDeprivation(models.DeprivationProfile{Ward: "Riverside", Score: 34.2, Decile: 2}); err != nil {
		t.Fatalf("InsertDeprivation: %v", err)
	}
	got, err := s.Deprivation("Riverside")
	if err != nil {
		t.Fatalf("Deprivation: %v", err)
	}
	if got == nil || got.Decile != 2 || got.Score != 34.2 {
		t.Errorf("deprivation = %+v", got)
	}
	if absent, _ := s.Deprivation("Nowhere"); absent != nil {
		t.Error("missing deprivation should come back nil")
	}
}

func TestCentroidsRoundTrip(t *testing.T) {
	s := openStore(t)

	want := map[string]models.Centroid{
		"Riverside": {Lon: -1.13, Lat: 52.63},
		"Abbey":     {Lon: -1.14, Lat: 52.64},
	}
	for ward, c := range want {
		if err := s.InsertCentroid(ward, c); err != nil {
			t.Fatalf("InsertCentroid(%s): %v", ward, err)
		}
	}
	got, err := s.Centroids()
	if err != nil {
		t.Fatalf("Centroids: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("centroids = %v, want %v", got, want)
	}
}

func TestInsertCentroidRejectsInvalid(t *testing.T) {
	s := openStore(t)
	if err := s.InsertCentroid("Bad", models.Centroid{Lon: -200, Lat: 52}); err == nil {
		t.Error("expected validation error for out-of-range longitude")
	}
}

func TestStatusRoundTrip(t *testing.T) {
	s := openStore(t)

	status := models.WardStatus{
		Ward:             "Riverside",
		Contested:        true,
		Defender:         "Labour",
		DefenderRetiring: true,
		RetainedSeats:    map[string]int{"Labour": 1, "Green": 1},
	}
	if err := s.InsertStatus(status); err != nil {
		t.Fatalf("InsertStatus: %v", err)
	}

	got, ok, err := s.Status("Riverside")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	if !got.Contested || got.Defender != "Labour" || !got.DefenderRetiring {
		t.Errorf("status = %+v", got)
	}
	if !reflect.DeepEqual(got.RetainedSeats, status.RetainedSeats) {
		t.Errorf("retained = %v, want %v", got.RetainedSeats, status.RetainedSeats)
	}

	if _, ok, _ := s.Status("Nowhere"); ok {
		t.Error("expected ok=false for unknown ward")
	}
}

func TestWardsSorted(t *testing.T) {
	s := openStore(t)
	for _, w := range []string{"Zeta", "Abbey", "Mill"} {
		if err := s.InsertStatus(models.WardStatus{Ward: w, Contested: true}); err != nil {
			t.Fatalf("InsertStatus(%s): %v", w, err)
		}
	}
	wards, err := s.Wards()
	if err != nil {
		t.Fatalf("Wards: %v", err)
	}
	if !reflect.DeepEqual(wards, []string{"Abbey", "Mill", "Zeta"}) {
		t.Errorf("wards = %v, want sorted", wards)
	}
}

func TestReferencesRoundTrip(t *testing.T) {
	s := openStore(t)

	polling := models.ShareVector{"Labour": 0.30, "Reform UK": 0.25}
	if err := s.InsertReference(ScopeNationalPolling, polling); err != nil {
		t.Fatalf("InsertReference: %v", err)
	}
	if err := s.InsertReference(ScopePriorNational, models.ShareVector{"Labour": 0.34}); err != nil {
		t.Fatalf("InsertReference: %v", err)
	}

	refs, err := s.References()
	if err != nil {
		t.Fatalf("References: %v", err)
	}
	if !reflect.DeepEqual(refs.NationalPolling, polling) {
		t.Errorf("polling = %v, want %v", refs.NationalPolling, polling)
	}
	if refs.PriorNational["Labour"] != 0.34 {
		t.Errorf("prior national = %v", refs.PriorNational)
	}
	// Missing scope is an empty vector, not nil.
	if refs.RecentLocal == nil || len(refs.RecentLocal) != 0 {
		t.Errorf("recent local = %v, want empty", refs.RecentLocal)
	}

	// Replacing a scope discards its previous shares.
	if err := s.InsertReference(ScopeNationalPolling, models.ShareVector{"Green": 0.08}); err != nil {
		t.Fatalf("InsertReference(replace): %v", err)
	}
	refs, err = s.References()
	if err != nil {
		t.Fatalf("References: %v", err)
	}
	if len(refs.NationalPolling) != 1 || refs.NationalPolling["Green"] != 0.08 {
		t.Errorf("replaced polling = %v", refs.NationalPolling)
	}
}

func TestCalibrationRoundTrip(t *testing.T) {
	s := openStore(t)

	// Nothing stored yet: nil, not an empty table.
	cal, err := s.Calibration()
	if err != nil {
		t.Fatalf("Calibration: %v", err)
	}
	if cal != nil {
		t.Fatalf("empty store should return nil calibration, got %+v", cal)
	}

	want := models.Calibration{
		SwingDampening:    map[string]float64{"Labour": 0.7},
		DemographicCoeffs: map[string]map[string]float64{"Labour": {"deprivation": 0.12, "over_65": -0.03}},
		MeanAbsoluteError: map[string]float64{"Labour": 0.04},
	}
	if err := s.InsertCalibration(want); err != nil {
		t.Fatalf("InsertCalibration: %v", err)
	}

	cal, err = s.Calibration()
	if err != nil {
		t.Fatalf("Calibration: %v", err)
	}
	if cal == nil {
		t.Fatal("expected a calibration table")
	}
	if !reflect.DeepEqual(cal.SwingDampening, want.SwingDampening) {
		t.Errorf("swing dampening = %v", cal.SwingDampening)
	}
	if !reflect.DeepEqual(cal.DemographicCoeffs, want.DemographicCoeffs) {
		t.Errorf("demographic coeffs = %v", cal.DemographicCoeffs)
	}
	if !reflect.DeepEqual(cal.MeanAbsoluteError, want.MeanAbsoluteError) {
		t.Errorf("mean absolute error = %v", cal.MeanAbsoluteError)
	}
}
