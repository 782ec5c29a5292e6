package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"location-resolver/internal/config"
	"location-resolver/internal/logging"
	"location-resolver/internal/models"
	"location-resolver/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// CSV columns of the address point export. Postal code is optional.
const (
	colPrefecture   = 0
	colMunicipality = 1
	colAddress1     = 2
	colAddress2     = 3
	colBlockLot     = 4
	colLatitude     = 9
	colLongitude    = 10
	colPostalCode   = 11
)

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	if *file == "" {
		log.Fatal().Msg("--file flag is required")
	}

	log.Info().Str("file", *file).Msg("starting import")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open file")
	}
	defer f.Close()

	places, err := parseCSV(f)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse CSV")
	}
	log.Info().Int("records", len(places)).Msg("parsed records")

	ctx := context.Background()
	conn, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	repo := repository.NewPlaceRepository(conn)
	if err := repo.EnsurePlaceSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot prepare places table")
	}

	before, err := repo.CountPlaces(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot count places")
	}

	n, err := repo.ImportPlaces(ctx, places)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot insert records")
	}

	after, err := repo.CountPlaces(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot count places")
	}
	if after-before != n {
		log.Fatal().Int64("copied", n).Int64("added", after-before).Msg("record count mismatch")
	}

	log.Info().Int64("records", n).Msg("import finished")
}

func parseCSV(r io.Reader) ([]models.Place, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var places []models.Place
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(record) <= colLongitude {
			return nil, fmt.Errorf("line %d: invalid record length %d, expected at least %d columns", line, len(record), colLongitude+1)
		}

		lat, err := strconv.ParseFloat(record[colLatitude], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid latitude: %s", line, record[colLatitude])
		}

		lon, err := strconv.ParseFloat(record[colLongitude], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude: %s", line, record[colLongitude])
		}

		place := models.Place{
			Prefecture:   record[colPrefecture],
			Municipality: record[colMunicipality],
			Address1:     record[colAddress1],
			Address2:     record[colAddress2],
			BlockLot:     record[colBlockLot],
			Latitude:     lat,
			Longitude:    lon,
		}
		if len(record) > colPostalCode {
			place.PostalCode = record[colPostalCode]
		}

		places = append(places, place)
	}

	return places, nil
}
