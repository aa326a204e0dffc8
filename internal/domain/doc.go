// Package domain models INCA precipitation radar maps published by the
// Slovenian Environment Agency (ARSO) and the rules for turning them into a
// "is it raining here" answer.
//
// # Data Source
//
// ARSO publishes a JSON index of the current nowcast maps at
// http://www.meteo.si/uploads/probase/www/nowcast/inca/inca_si0zm_data.json?prod=si0zm.
// Every element describes one PNG image:
//
//	{"mode":"ANL","path":"/uploads/.../inca_si0zm_20191121-0245+0000.png",
//	 "date":"201911210245","hhmm":"0245","bbox":"44.67,12.1,47.42,17.44",
//	 "width":"800","height":"600","valid":"2019-11-21T02:45:00Z"}
//
// All values are strings. Only path, bbox and valid are required to build a
// [RadarFrame]; width and height are cross-checked against the decoded image
// when they parse.
//
// # Georeferencing
//
// The bbox field is "<lat1>,<lon1>,<lat2>,<lon2>" in decimal degrees. Pixel
// coordinates are a linear interpolation over the box:
//
//	x = (lon - lon1) / (lon2 - lon1) * width
//	y = (lat - lat1) / (lat2 - lat1) * height
//
// so (lat1, lon1) maps to pixel (0, 0). See [GeoRaster.Sample].
//
// # Color Scale
//
// Precipitation is rendered with a fixed 15-step palette from light blue
// (15 dBZ) to magenta (57 dBZ). Transparent pixels mean no echo. A sampled
// pixel is matched to the nearest palette color and normalized to [0, 1] by
// the top level. See [Classify].
package domain
