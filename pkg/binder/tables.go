package binder

import (
	"fmt"

	"github.com/ccollicutt/sitelog/pkg/convert"
	"github.com/ccollicutt/sitelog/pkg/equipment"
	"github.com/ccollicutt/sitelog/pkg/parser"
	"github.com/ccollicutt/sitelog/pkg/vocab"
)

// Lookups supplies the vocabularies and equipment catalogs the default
// tables convert against.
type Lookups struct {
	Vocabularies *vocab.Set
	Equipment    *equipment.Registry
}

// DefaultLookups returns the built-in vocabularies and equipment.
func DefaultLookups() (Lookups, error) {
	vs, err := vocab.Default()
	if err != nil {
		return Lookups{}, err
	}
	reg, err := equipment.Default()
	if err != nil {
		return Lookups{}, err
	}
	return Lookups{Vocabularies: vs, Equipment: reg}, nil
}

func one(field string, c convert.Converter, names ...string) Rule {
	return Rule{Names: names, Translations: []Translation{{Field: field, Converter: c}}}
}

func text(field string, names ...string) Rule {
	return one(field, convert.String(), names...)
}

func number(field string, names ...string) Rule {
	return one(field, convert.Float(), names...)
}

func accuracy(names ...string) Rule {
	return one("accuracy", convert.Float(convert.TakeLast()), names...)
}

func effectiveDates(names ...string) Rule {
	return Rule{Names: names, Translations: []Translation{
		{Field: "effective_start", Converter: convert.Effective(false)},
		{Field: "effective_end", Converter: convert.Effective(true)},
	}}
}

func h(section, subsection int) parser.HeadingIndex {
	return parser.HeadingIndex{Section: section, Subsection: subsection}
}

// DefaultTable builds the translation tables for the IGS site log format.
func DefaultTable(l Lookups) (*Table, error) {
	choices := func(name string) (convert.Choices, error) {
		v, ok := l.Vocabularies.Get(name)
		if !ok {
			return nil, fmt.Errorf("vocabulary %s is not loaded", name)
		}
		return v, nil
	}
	var errs []error
	enum := func(name string, opts ...convert.EnumOption) convert.Converter {
		c, err := choices(name)
		if err != nil {
			errs = append(errs, err)
			return convert.Ignore("")
		}
		return convert.Enum(c, opts...)
	}

	meteorological := []Rule{
		text("manufacturer", "Manufacturer"),
		text("serial_number", "Serial Number"),
		number("height_diff", "Height Diff to Ant"),
		one("calibration", convert.Date(), "Calibration date"),
		effectiveDates("Effective Dates"),
		text("notes", "Notes"),
	}
	ongoing := []Rule{
		effectiveDates("Effective Dates"),
		text("additional_information", "Additional Information"),
	}
	contacts := []Rule{
		text("agency", "Agency"),
		text("preferred_abbreviation", "Preferred Abbreviation"),
		text("mailing_address", "Mailing Address"),
		text("primary_name", "Primary Contact::Contact Name"),
		text("primary_phone1", "Primary Contact::Telephone (primary)"),
		text("primary_phone2", "Primary Contact::Telephone (secondary)"),
		text("primary_fax", "Primary Contact::Fax"),
		text("primary_email", "Primary Contact::E-mail"),
		text("secondary_name", "Secondary Contact::Contact Name"),
		text("secondary_phone1", "Secondary Contact::Telephone (primary)"),
		text("secondary_phone2", "Secondary Contact::Telephone (secondary)"),
		text("secondary_fax", "Secondary Contact::Fax"),
		text("secondary_email", "Secondary Contact::E-mail"),
		text("additional_information", "Additional Information"),
	}
	with := func(base []Rule, extra ...Rule) []Rule {
		return append(append([]Rule(nil), extra...), base...)
	}

	type layout struct {
		heading parser.HeadingIndex
		rules   []Rule
		opts    []SectionOption
	}
	layouts := []layout{
		{h(0, 0), []Rule{
			text("prepared_by", "Prepared By", "Prepared by (full name)"),
			one("date_prepared", convert.Date(), "Date", "Date Prepared"),
			text("report_type", "Report Type"),
			one("", convert.Ignore(""), "If Update"),
			one("previous_log", convert.Ignore(""), "Previous Site Log"),
			text("modified_section", "Modified/Added Sections"),
		}, nil},
		{h(1, 0), []Rule{
			text("site_name", "Site Name"),
			one("nine_character_id", convert.Ignore(""), "4 char ID", "Four Character ID", "Nine Character ID"),
			text("monument_inscription", "Monument Inscription"),
			text("iers_domes_number", "IERS DOMES Number"),
			text("cdp_number", "CDP Number"),
			one("date_installed", convert.DateTime(), "Date", "Date Installed"),
			text("monument_description", "Monument Description"),
			number("monument_height", "Height of the Monument (m)", "Height of the Monument"),
			text("monument_foundation", "Monument Foundation"),
			number("foundation_depth", "Foundation Depth (m)", "Foundation Depth"),
			text("marker_description", "Marker Description"),
			text("geologic_characteristic", "Geologic Characteristic"),
			text("bedrock_type", "Bedrock Type"),
			text("bedrock_condition", "Bedrock Condition"),
			one("fracture_spacing", enum(vocab.FractureSpacing), "Fracture Spacing"),
			text("fault_zones", "Fault Zones Nearby"),
			text("distance", "Distance/activity"),
			text("additional_information", "Additional Information"),
		}, nil},
		{h(2, 0), []Rule{
			text("city", "City", "City or Town"),
			text("state", "State or Province"),
			one("country", enum(vocab.Country, convert.Lenient()), "Country", "Country or Region"),
			one("tectonic", enum(vocab.TectonicPlate), "Tectonic Plate"),
			one("", convert.Ignore(""), "Approximate Position"),
			number("x", "X coordinate", "X coordinate (m)"),
			number("y", "Y coordinate", "Y coordinate (m)"),
			number("z", "Z coordinate", "Z coordinate (m)"),
			one("latitude", convert.DecimalDegrees(), "Latitude", "Latitude (deg)", "Latitude (N is +)"),
			one("longitude", convert.DecimalDegrees(), "Longitude", "Longitude (deg)", "Longitude (E is +)"),
			number("elevation", "Elevation", "Elevation (m)", "Elevation (m,ellips.)"),
			text("additional_information", "Additional Information"),
		}, []SectionOption{
			Collate("xyz", "x", "y", "z"),
			Collate("llh", "latitude", "longitude", "elevation"),
		}},
		{h(3, 0), []Rule{
			one("receiver_type", convert.Receiver(l.Equipment.Receivers()), "Type", "Receiver Type"),
			one("satellite_system", convert.Satellites(l.Equipment.SatelliteSystems()), "Satellite System"),
			text("serial_number", "Serial Number"),
			text("firmware", "Firmware Version"),
			number("elevation_cutoff", "Elevation Cutoff Setting"),
			one("installed", convert.DateTime(), "Date", "Date Installed"),
			one("removed", convert.DateTime(), "Date Removed"),
			{Names: []string{"Temperature Stabiliz."}, Translations: []Translation{
				{Field: "temp_stabilized", Converter: convert.TempStabilized()},
				{Field: "temp_nominal", Converter: convert.TempNominal()},
				{Field: "temp_deviation", Converter: convert.TempDeviation()},
			}},
			text("additional_info", "Additional Information"),
		}, []SectionOption{Optional("temp_nominal", "temp_deviation")}},
		{h(4, 0), []Rule{
			one("antenna_type", convert.Antenna(l.Equipment.Antennas()), "Type", "Antenna Type"),
			text("serial_number", "Serial Number"),
			one("reference_point", enum(vocab.AntennaReferencePoint, convert.IgnoreTokens("ARP", "n/a")), "Antenna Reference Point"),
			number("marker_up", "Marker->ARP Up Ecc.", "Marker->ARP Up Ecc. (m)"),
			number("marker_north", "Marker->ARP North Ecc", "Marker->ARP North Ecc(m)"),
			number("marker_east", "Marker->ARP East Ecc", "Marker->ARP East Ecc(m)"),
			number("antenna_height", "Antenna Height", "Antenna Height (m)"),
			one("alignment", convert.Alignment(), "Alignment from True N", "Degree Offset from North"),
			one("radome_type", convert.Radome(l.Equipment.Radomes()), "Antenna Radome Type"),
			text("radome_serial_number", "Radome Serial Number"),
			text("cable_type", "Antenna Cable Type"),
			number("cable_length", "Antenna Cable Length"),
			one("installed", convert.DateTime(), "Date Installed", "Date"),
			one("removed", convert.DateTime(), "Date Removed"),
			text("additional_information", "Additional Information"),
		}, []SectionOption{
			Collate("marker_une", "marker_up", "marker_north", "marker_east"),
			Optional("antenna_height"),
		}},
		{h(5, 0), []Rule{
			text("name", "Monument Name", "Tied Marker Name"),
			text("usage", "Tied Marker Usage"),
			text("cdp_number", "Site Ref CDP Number", "Tied Marker CDP Number"),
			text("domes_number", "Site Ref Domes Number", "Tied Marker DOMES Number"),
			number("dx", "dx", "dx (m)"),
			number("dy", "dy", "dy (m)"),
			number("dz", "dz", "dz (m)"),
			accuracy("Accuracy", "Accuracy (mm)"),
			text("survey_method", "Survey method"),
			one("measured", convert.DateTime(), "Date", "Date Measured"),
			text("additional_information", "Additional Information"),
		}, []SectionOption{Collate("diff_xyz", "dx", "dy", "dz")}},
		{h(6, 0), []Rule{
			one("standard_type", enum(vocab.FrequencyStandard), "Standard Type"),
			number("input_frequency", "Input Frequency", "Frequency"),
			effectiveDates("Effective Dates"),
			text("notes", "Notes"),
		}, nil},
		{h(7, 0), []Rule{
			text("instrument_type", "Instrumentation Type"),
			one("status", enum(vocab.CollocationStatus), "Status"),
			effectiveDates("Effective Dates"),
			text("notes", "Notes"),
		}, nil},
		{h(8, 1), with(meteorological,
			accuracy("Accuracy", "Accuracy (% rel h)"),
			text("model", "Humidity Sensor Model"),
			one("sampling_interval", convert.Seconds(), "Data Sampling Interval"),
			one("aspiration", enum(vocab.Aspiration), "Aspiration"),
		), nil},
		{h(8, 2), with(meteorological,
			text("model", "Pressure Sensor Model"),
			one("sampling_interval", convert.Seconds(), "Data Sampling Interval"),
			one("accuracy", convert.Pressure(), "Accuracy"),
		), nil},
		{h(8, 3), with(meteorological,
			text("model", "Temp. Sensor Model"),
			one("sampling_interval", convert.Seconds(), "Data Sampling Interval"),
			accuracy("Accuracy"),
			one("aspiration", enum(vocab.Aspiration), "Aspiration"),
		), nil},
		{h(8, 4), with(meteorological,
			text("model", "Water Vapor Radiometer"),
			number("distance_to_antenna", "Distance to Antenna"),
		), nil},
		{h(8, 5), []Rule{text("instrumentation", "Other Instrumentation")}, nil},
		{h(9, 1), with(ongoing,
			text("interferences", "Radio Interferences"),
			text("degradations", "Observed Degradations"),
		), nil},
		{h(9, 2), with(ongoing, text("sources", "Multipath Sources")), nil},
		{h(9, 3), with(ongoing, text("obstructions", "Signal Obstructions")), nil},
		{h(10, 0), []Rule{
			effectiveDates("Date"),
			text("event", "Event"),
		}, nil},
		{h(11, 0), contacts, nil},
		{h(12, 0), contacts, nil},
		{h(13, 0), []Rule{
			text("primary", "Primary Data Center"),
			text("secondary", "Secondary Data Center"),
			one("more_info", convert.Concat(), "URL for More Information"),
			text("sitemap", "Site Map"),
			text("site_diagram", "Site Diagram"),
			text("horizon_mask", "Horizon Mask"),
			text("monument_description", "Monument Description"),
			text("site_picture", "Site Pictures"),
			text("additional_information", "Additional Information"),
		}, nil},
	}

	sections := make([]*SectionTable, 0, len(layouts))
	for _, s := range layouts {
		st, err := NewSectionTable(s.heading, s.rules, s.opts...)
		if err != nil {
			return nil, err
		}
		sections = append(sections, st)
	}
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return NewTable(sections...)
}
