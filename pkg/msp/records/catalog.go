package records

// Codes of the records in the catalog.
const (
	CodeAPIVersion       byte = 1
	CodeFCVariant        byte = 2
	CodeFCVersion        byte = 3
	CodeBoardInfo        byte = 4
	CodeBuildInfo        byte = 5
	CodeName             byte = 10
	CodeDataFlashSummary byte = 70
	CodeStatus           byte = 101
	CodeRawIMU           byte = 102
	CodeAttitude         byte = 108
	CodeAltitude         byte = 109
	CodeAnalog           byte = 110
	CodeBatteryState     byte = 130
	CodeStatusEx         byte = 150
	CodeUID              byte = 160
)

// available sensors bit field, shared by status records.
func sensorFlags(offset int) []Field {
	return []Field{
		{Name: "sensor_sonar", Kind: Flag, Offset: offset, Bit: 2},
		{Name: "sensor_gps", Kind: Flag, Offset: offset, Bit: 4},
		{Name: "sensor_mag", Kind: Flag, Offset: offset, Bit: 5},
		{Name: "sensor_baro", Kind: Flag, Offset: offset, Bit: 6},
		{Name: "sensor_acc", Kind: Flag, Offset: offset, Bit: 7},
	}
}

func imuAxes() []Field {
	var fields []Field
	for n, name := range []string{"acc", "gyro", "mag"} {
		for i, axis := range []string{"x", "y", "z"} {
			fields = append(fields, Field{Name: name + "_" + axis, Kind: Int16, Offset: (n*3 + i) * 2})
		}
	}
	return fields
}

// Catalog lists all known layouts.
var Catalog = []*Layout{
	{Code: CodeAPIVersion, Name: "api_version", Fields: []Field{
		{Name: "protocol_version", Kind: Uint8, Offset: 0},
		{Name: "api_version_major", Kind: Uint8, Offset: 1},
		{Name: "api_version_minor", Kind: Uint8, Offset: 2},
	}},
	{Code: CodeFCVariant, Name: "fc_variant", Fields: []Field{
		{Name: "identifier", Kind: String, Offset: 0, Size: 4},
	}},
	{Code: CodeFCVersion, Name: "fc_version", Fields: []Field{
		{Name: "major", Kind: Uint8, Offset: 0},
		{Name: "minor", Kind: Uint8, Offset: 1},
		{Name: "patch", Kind: Uint8, Offset: 2},
	}},
	{Code: CodeBoardInfo, Name: "board_info", Fields: []Field{
		{Name: "board_id", Kind: String, Offset: 0, Size: 4},
		{Name: "hardware_revision", Kind: Uint16, Offset: 4},
		{Name: "fc_type", Kind: Uint8, Offset: 6},
	}},
	{Code: CodeBuildInfo, Name: "build_info", Fields: []Field{
		{Name: "date", Kind: String, Offset: 0, Size: 11},
		{Name: "time", Kind: String, Offset: 11, Size: 8},
		{Name: "git", Kind: String, Offset: 19, Size: 7},
	}},
	{Code: CodeName, Name: "name", Fields: []Field{
		{Name: "name", Kind: String, Offset: 0},
	}},
	{Code: CodeDataFlashSummary, Name: "dataflash_summary", Fields: []Field{
		{Name: "supported", Kind: Flag, Offset: 0, Bit: 6},
		{Name: "ready", Kind: Flag, Offset: 0, Bit: 7},
		{Name: "sectors", Kind: Uint32, Offset: 1},
		{Name: "total_size_bytes", Kind: Uint32, Offset: 5},
		{Name: "used_size_bytes", Kind: Uint32, Offset: 9},
	}},
	{Code: CodeStatus, Name: "status", Fields: append([]Field{
		{Name: "cycle_time", Kind: Uint16, Offset: 0},
		{Name: "i2c_errors", Kind: Uint16, Offset: 2},
		{Name: "flight_mode", Kind: Uint32, Offset: 6},
		{Name: "profile", Kind: Uint8, Offset: 10},
		{Name: "system_load", Kind: Uint16, Offset: 11},
	}, sensorFlags(4)...)},
	{Code: CodeRawIMU, Name: "raw_imu", Fields: imuAxes()},
	{Code: CodeAttitude, Name: "attitude", Fields: []Field{
		{Name: "roll", Kind: Int16, Offset: 0},
		{Name: "pitch", Kind: Int16, Offset: 2},
		{Name: "yaw", Kind: Int16, Offset: 4},
	}},
	{Code: CodeAltitude, Name: "altitude", Fields: []Field{
		{Name: "altitude", Kind: Int32, Offset: 0},
		{Name: "vario", Kind: Int16, Offset: 4},
	}},
	{Code: CodeAnalog, Name: "analog", Fields: []Field{
		{Name: "battery_voltage", Kind: Uint8, Offset: 0},
		{Name: "mah_drawn", Kind: Uint16, Offset: 1},
		{Name: "rssi", Kind: Uint16, Offset: 3},
		{Name: "amperage", Kind: Int16, Offset: 5},
	}},
	{Code: CodeBatteryState, Name: "battery_state", Fields: []Field{
		{Name: "battery_cell_count", Kind: Uint8, Offset: 0},
		{Name: "battery_capacity", Kind: Uint16, Offset: 1},
		{Name: "battery_voltage", Kind: Uint8, Offset: 3},
		{Name: "mah_drawn", Kind: Uint16, Offset: 4},
		{Name: "amperage", Kind: Int16, Offset: 6},
		{Name: "alerts", Kind: Uint8, Offset: 8},
	}},
	{Code: CodeStatusEx, Name: "status_ex", Fields: append([]Field{
		{Name: "cycle_time", Kind: Uint16, Offset: 0},
		{Name: "i2c_errors", Kind: Uint16, Offset: 2},
		{Name: "flight_mode", Kind: Uint32, Offset: 6},
		{Name: "current_pid_profile_index", Kind: Uint8, Offset: 10},
		{Name: "average_system_load_percent", Kind: Uint16, Offset: 11},
		{Name: "max_profile_count", Kind: Uint8, Offset: 13},
		{Name: "current_control_rate_profile_index", Kind: Uint8, Offset: 14},
	}, sensorFlags(4)...)},
	{Code: CodeUID, Name: "uid", Fields: []Field{
		{Name: "uid", Kind: Bytes, Offset: 0, Size: 12},
	}},
}

var byCode = func() map[byte]*Layout {
	m := make(map[byte]*Layout, len(Catalog))
	for _, l := range Catalog {
		m[l.Code] = l
	}
	return m
}()

// Lookup finds the layout of a code.
func Lookup(code byte) (*Layout, bool) {
	l, ok := byCode[code]
	return l, ok
}

// LookupName finds the layout by name.
func LookupName(name string) (*Layout, bool) {
	for _, l := range Catalog {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}
