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
	"context"
	"log"
	"sync"
)

// startBackgroundRoutine runs workfn until parent context is done
// or returned stop function is called, stop waits for exit.
func startBackgroundRoutine(parent context.Context, name string, workfn func(context.Context)) func() {
	log.Printf("Starting %s routine", name)
	ctx, cancel := context.WithCancel(parent)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		workfn(ctx)
		wg.Done()
	}()
	return sync.OnceFunc(func() {
		log.Printf("Shutting down %s routine", name)
		cancel()
		wg.Wait()
		log.Printf("Routine %s done", name)
	})
}
