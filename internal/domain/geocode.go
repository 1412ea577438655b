package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding attempts to enrich a risk record with geocoding data.
// If geocoder is nil or geocoding fails, the record is returned with
// GeoSource set accordingly; a risk record is still valid without resolved
// place details.
func EnrichWithGeocoding(ctx context.Context, record RiskRecord, geocoder Geocoder, logger *slog.Logger) RiskRecord {
	if geocoder == nil {
		return record
	}

	hasCoords := record.Geo.Lat != 0 || record.Geo.Lon != 0
	hasName := record.Location.Name != ""

	// Forward geocode: place name → coordinates (when coords are missing).
	if !hasCoords && hasName {
		result, err := geocoder.ForwardGeocode(ctx, record.Location.Name, record.Location.Region)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"record_id", record.ID,
				"location", record.Location.Name,
				"region", record.Location.Region,
				"error", err,
			)
			record.Location.GeoSource = "failed"
			return record
		}
		if result.Lat != 0 || result.Lon != 0 {
			record.Geo.Lat = result.Lat
			record.Geo.Lon = result.Lon
			record.Location.FormattedAddress = result.FormattedAddress
			record.Location.PlaceName = result.PlaceName
			record.Location.GeoConfidence = result.Confidence
			record.Location.GeoSource = "forward"
			return record
		}
		record.Location.GeoSource = "original"
		return record
	}

	// Reverse geocode: coordinates → place details (when coords are present).
	if hasCoords {
		result, err := geocoder.ReverseGeocode(ctx, record.Geo.Lat, record.Geo.Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"record_id", record.ID,
				"lat", record.Geo.Lat,
				"lon", record.Geo.Lon,
				"error", err,
			)
			record.Location.GeoSource = "failed"
			return record
		}
		if result.FormattedAddress != "" {
			record.Location.FormattedAddress = result.FormattedAddress
			record.Location.PlaceName = result.PlaceName
			record.Location.GeoConfidence = result.Confidence
			record.Location.GeoSource = "reverse"
			return record
		}
		record.Location.GeoSource = "original"
		return record
	}

	record.Location.GeoSource = "original"
	return record
}
