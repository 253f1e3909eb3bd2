// Package service contains the application use cases for the farm registry.
// It orchestrates domain objects and the repositories defined in
// internal/store to fulfill producer, crop and farm operations.
//
// Key components:
//
//   - FarmService: the farm aggregate. Creation resolves the producer and the
//     initial crops, updates merge partial area changes before validating
//     them, and association changes go through the crop association planner.
//   - Crop association planning (AddCrops, RemoveCrops, ResolveCrops): set
//     algebra over a farm's crop ids plus batch resolution of crop ids.
//   - ProducerService and CropService: registry CRUD.
//
// Every farm mutation runs inside one transaction obtained from a
// store.TxRunner, and all checks complete in memory before the first write.
package service
