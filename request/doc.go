// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package request provides the value types a load controller consumes
// and produces: the immutable Descriptor describing an outgoing
// request, the Response descriptor describing an incoming response,
// and the AuthChallenge raised when a server demands credentials.
//
// Descriptors are constructed with NewDescriptor and must be treated
// as immutable once handed to a controller. Responses are constructed
// once per load and handed to the consumer's dispatcher by ownership
// transfer; the consumer may keep them without copying.
package request
