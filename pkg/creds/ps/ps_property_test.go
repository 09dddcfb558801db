package ps_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Dreyvor/ADVPETs-projects/pkg/creds/ps"
)

func attrs(values ...uint64) ps.AttributeMap {
	suite := ps.NewSuite()
	out := make(ps.AttributeMap, len(values))
	for i, v := range values {
		s := suite.G1().Scalar().SetInt64(int64(v))
		out[i] = ps.AttrScalar{Index: i, Value: s}
	}
	return out
}

var _ = Describe("PS signature", func() {
	var suite ps.Suite

	BeforeEach(func() {
		suite = ps.NewSuite()
	})

	// B1
	It("verifies a freshly signed attribute vector", func() {
		sk, pk, err := ps.KeyGen(suite, []int{0, 1, 2})
		Expect(err).NotTo(HaveOccurred())

		m := attrs(3, 14, 15)
		sig, err := ps.Sign(suite, sk, m)
		Expect(err).NotTo(HaveOccurred())
		Expect(ps.Verify(suite, pk, sig, m)).To(BeTrue())
	})

	// B2
	It("rejects a signature whose h is the identity element", func() {
		sk, pk, err := ps.KeyGen(suite, []int{0, 1})
		Expect(err).NotTo(HaveOccurred())

		m := attrs(7, 8)
		sig, err := ps.Sign(suite, sk, m)
		Expect(err).NotTo(HaveOccurred())
		sig.H = suite.G1().Point().Null()
		Expect(ps.Verify(suite, pk, sig, m)).To(BeFalse())
	})

	It("rejects verification against a different message vector", func() {
		sk, pk, err := ps.KeyGen(suite, []int{0, 1})
		Expect(err).NotTo(HaveOccurred())

		m := attrs(1, 2)
		sig, err := ps.Sign(suite, sk, m)
		Expect(err).NotTo(HaveOccurred())
		Expect(ps.Verify(suite, pk, sig, attrs(1, 3))).To(BeFalse())
	})
})

var _ = Describe("Issuance and showing", func() {
	var (
		suite   ps.Suite
		sk      *ps.SecretKey
		pk      *ps.PublicKey
		cred    *ps.Credential
		message []byte
	)

	BeforeEach(func() {
		suite = ps.NewSuite()
		var err error
		sk, pk, err = ps.KeyGen(suite, []int{0, 1, 2})
		Expect(err).NotTo(HaveOccurred())

		userAttrs := attrs(0, 0, 0)[:1] // index 0 only, user-held
		req, t, err := ps.CreateIssuanceRequest(suite, pk, userAttrs)
		Expect(err).NotTo(HaveOccurred())

		issuerAttrs := attrs(0, 0, 0)[1:] // indices 1,2, issuer-known
		blind, err := ps.SignIssuanceRequest(suite, sk, pk, req, issuerAttrs)
		Expect(err).NotTo(HaveOccurred())

		all := userAttrs.Merge(issuerAttrs)
		cred, err = ps.ObtainCredential(suite, pk, blind, t, all)
		Expect(err).NotTo(HaveOccurred())

		message = []byte("48.85,2.35")
	})

	// B3
	It("produces a credential that verifies on the full attribute map", func() {
		Expect(ps.Verify(suite, pk, &cred.Sig, cred.Attrs)).To(BeTrue())
	})

	// B4
	It("produces a disclosure proof that verifies when honestly generated", func() {
		proof, err := ps.CreateDisclosureProof(suite, pk, cred, []int{0, 2}, message)
		Expect(err).NotTo(HaveOccurred())
		Expect(ps.VerifyDisclosureProof(suite, pk, proof)).To(BeTrue())
	})

	// B5
	It("rejects tampering with the disclosed attributes, message, or signature", func() {
		base, err := ps.CreateDisclosureProof(suite, pk, cred, []int{0, 2}, message)
		Expect(err).NotTo(HaveOccurred())
		Expect(ps.VerifyDisclosureProof(suite, pk, base)).To(BeTrue())

		tamperedMessage := *base
		tamperedMessage.Message = []byte("0,0")
		Expect(ps.VerifyDisclosureProof(suite, pk, &tamperedMessage)).To(BeFalse())

		tamperedDisclosed := *base
		bumped := suite.G1().Scalar().Add(base.Disclosed[0].Value, suite.G1().Scalar().One())
		tamperedDisclosed.Disclosed = ps.AttributeMap{{Index: base.Disclosed[0].Index, Value: bumped}}
		Expect(ps.VerifyDisclosureProof(suite, pk, &tamperedDisclosed)).To(BeFalse())

		tamperedSig := *base
		tamperedSig.Sigma2 = suite.G1().Point().Add(base.Sigma2, suite.G1().Point().Base())
		Expect(ps.VerifyDisclosureProof(suite, pk, &tamperedSig)).To(BeFalse())
	})

	// B6
	It("randomizes sigma'_1 independently across showings of the same credential", func() {
		first, err := ps.CreateDisclosureProof(suite, pk, cred, []int{0, 2}, message)
		Expect(err).NotTo(HaveOccurred())
		second, err := ps.CreateDisclosureProof(suite, pk, cred, []int{0, 2}, message)
		Expect(err).NotTo(HaveOccurred())

		Expect(first.Sigma1.Equal(second.Sigma1)).To(BeFalse())
		Expect(first.Sigma1.Equal(suite.G1().Point().Null())).To(BeFalse())
	})
})
