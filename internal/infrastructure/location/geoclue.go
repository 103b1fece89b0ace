package location

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/bnema/duskd/internal/domain/entity"
)

const (
	geoclueService   = "org.freedesktop.GeoClue2"
	geoclueManager   = "/org/freedesktop/GeoClue2/Manager"
	geoclueClientIfc = "org.freedesktop.GeoClue2.Client"

	// GCLUE_ACCURACY_LEVEL_CITY is plenty for sunrise/sunset.
	accuracyCity = uint32(4)

	defaultFixTimeout = 20 * time.Second
)

// GeoClueProvider queries the GeoClue2 portal over the system bus on
// demand. Every failure mode (no portal, agent denied, no fix within
// the timeout) is reported as "no location", never as an error.
type GeoClueProvider struct {
	desktopID string
	timeout   time.Duration
	log       zerolog.Logger
}

// NewGeoClueProvider creates a provider identifying itself to the
// portal with the given desktop id.
func NewGeoClueProvider(desktopID string, logger *zerolog.Logger) *GeoClueProvider {
	p := &GeoClueProvider{
		desktopID: desktopID,
		timeout:   defaultFixTimeout,
		log:       zerolog.Nop(),
	}
	if logger != nil {
		p.log = *logger
	}
	return p
}

// CurrentLocation implements port.LocationProvider.
func (p *GeoClueProvider) CurrentLocation() (entity.Location, bool) {
	loc, err := p.query()
	if err != nil {
		p.log.Debug().Err(err).Msg("geoclue location unavailable")
		return entity.Location{}, false
	}
	return loc, true
}

func (p *GeoClueProvider) query() (entity.Location, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return entity.Location{}, fmt.Errorf("connect system bus: %w", err)
	}

	manager := conn.Object(geoclueService, geoclueManager)
	var clientPath dbus.ObjectPath
	if err := manager.Call(geoclueService+".Manager.GetClient", 0).Store(&clientPath); err != nil {
		return entity.Location{}, fmt.Errorf("get geoclue client: %w", err)
	}

	client := conn.Object(geoclueService, clientPath)
	if err := client.SetProperty(geoclueClientIfc+".DesktopId", dbus.MakeVariant(p.desktopID)); err != nil {
		return entity.Location{}, fmt.Errorf("set desktop id: %w", err)
	}
	if err := client.SetProperty(geoclueClientIfc+".RequestedAccuracyLevel", dbus.MakeVariant(accuracyCity)); err != nil {
		return entity.Location{}, fmt.Errorf("set accuracy level: %w", err)
	}

	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(clientPath),
		dbus.WithMatchInterface(geoclueClientIfc),
		dbus.WithMatchMember("LocationUpdated"),
	}
	if err := conn.AddMatchSignal(match...); err != nil {
		return entity.Location{}, fmt.Errorf("subscribe location updates: %w", err)
	}
	defer func() { _ = conn.RemoveMatchSignal(match...) }()

	signals := make(chan *dbus.Signal, 4)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	if err := client.Call(geoclueClientIfc+".Start", 0).Err; err != nil {
		return entity.Location{}, fmt.Errorf("start geoclue client: %w", err)
	}
	defer func() { _ = client.Call(geoclueClientIfc+".Stop", 0).Err }()

	deadline := time.NewTimer(p.timeout)
	defer deadline.Stop()

	for {
		select {
		case sig := <-signals:
			if sig == nil || sig.Name != geoclueClientIfc+".LocationUpdated" || sig.Path != clientPath {
				continue
			}
			if len(sig.Body) < 2 {
				continue
			}
			newPath, ok := sig.Body[1].(dbus.ObjectPath)
			if !ok {
				continue
			}
			return p.readLocation(conn, newPath)
		case <-deadline.C:
			return entity.Location{}, fmt.Errorf("no location fix within %s", p.timeout)
		}
	}
}

func (p *GeoClueProvider) readLocation(conn *dbus.Conn, path dbus.ObjectPath) (entity.Location, error) {
	obj := conn.Object(geoclueService, path)

	lat, err := obj.GetProperty(geoclueService + ".Location.Latitude")
	if err != nil {
		return entity.Location{}, fmt.Errorf("read latitude: %w", err)
	}
	lon, err := obj.GetProperty(geoclueService + ".Location.Longitude")
	if err != nil {
		return entity.Location{}, fmt.Errorf("read longitude: %w", err)
	}

	loc := entity.Location{}
	if v, ok := lat.Value().(float64); ok {
		loc.Latitude = v
	}
	if v, ok := lon.Value().(float64); ok {
		loc.Longitude = v
	}
	p.log.Debug().
		Float64("lat", loc.Latitude).
		Float64("lon", loc.Longitude).
		Msg("geoclue location fix")
	return loc, nil
}
