/*
	SectorMapper, top-down map renderer for voxel worlds
	Copyright (C) 2022 Maxim Zhuchkov

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.

	Contact me via mail: q3.max.2011@yandex.ru or Discord: MaX#6717
*/

package main

import (
	"errors"
	"log"
	"os"

	"github.com/maxsupermanhd/lac"
)

var cfg *lac.Conf

func configPath() string {
	path := os.Getenv("SECTORMAPPER_CONFIG")
	if path == "" {
		path = "config.json"
	}
	return path
}

// loadConfig falls back to empty config when there is no file.
func loadConfig() error {
	path := configPath()
	c, err := lac.FromFileJSON(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("Config %q not found, using defaults", path)
			cfg = lac.NewConf()
			return nil
		}
		return err
	}
	cfg = c
	return nil
}
